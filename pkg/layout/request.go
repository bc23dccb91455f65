package layout

import (
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

// Request is the wire form of a command, as posted to the admin API or built
// from CLI flags. Paths use the "/0/1" notation; an empty path string means
// "use the cursor".
type Request struct {
	Command Kind   `json:"command"`
	Count   int    `json:"count,omitempty"`
	Align   string `json:"align,omitempty"`
	At      string `json:"at,omitempty"`
	From    int    `json:"from,omitempty"`
	To      int    `json:"to,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Text    string `json:"text,omitempty"`
}

// ParseCommand converts a request into a typed command.
func ParseCommand(r Request) (Command, error) {
	at, err := optionalPath(r.At)
	if err != nil {
		return nil, err
	}
	switch r.Command {
	case KindInsertColumns:
		return InsertColumns{Count: r.Count, At: at}, nil
	case KindSetColumnVerticalAlign:
		return SetColumnVerticalAlign{Align: r.Align, Target: at}, nil
	case KindRemoveColumn:
		return RemoveColumn{Target: at}, nil
	case KindDeleteContent:
		if at == nil {
			at = doc.Path{}
		}
		return DeleteContent{Parent: at, From: r.From, To: r.To}, nil
	case KindJoinBackward:
		return JoinBackward{Target: at}, nil
	case KindInsertText:
		return InsertText{Target: at, Offset: r.Offset, Text: r.Text}, nil
	case KindInsertParagraph:
		return InsertParagraph{At: at, Text: r.Text}, nil
	case "":
		return nil, errors.InvalidArgument("missing command")
	default:
		return nil, errors.InvalidArgument("unknown command %q", r.Command)
	}
}

func optionalPath(s string) (doc.Path, error) {
	if s == "" {
		return nil, nil
	}
	p, err := doc.ParsePath(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "bad path")
	}
	return p, nil
}
