package layout

import (
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// Run executes cmd against root through a mediator carrying the layout plugin
// and returns the result. The boolean mirrors the editor-command convention:
// false means the command did not apply and the document is untouched.
//
// Run is the stateless form of an editing session. It never modifies root.
func Run(reg *schema.Registry, root *doc.Node, cursor doc.Path, cmd Command) (transform.Result, bool, error) {
	if reg == nil {
		reg = schema.Default()
	}
	unchanged := transform.Result{Doc: root}

	tx, err := cmd.Transaction(root, cursor, reg)
	if err != nil || tx == nil {
		return unchanged, false, err
	}
	res, err := transform.NewMediator(reg, NewPlugin(reg)).Apply(root, tx)
	if err != nil {
		return unchanged, false, err
	}
	return res, !res.Transaction.Empty(), nil
}
