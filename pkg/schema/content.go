package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

// term is one element of a content expression: a node name or group name
// with repetition bounds.
type term struct {
	name     string
	min, max int
}

type expr []term

// parseExpr parses expressions such as "paragraph block*", "column+" or
// "inline*". Supported quantifiers are *, +, ? and none (exactly one).
func parseExpr(s string) (expr, error) {
	fields := strings.Fields(s)
	out := make(expr, 0, len(fields))
	for _, f := range fields {
		t := term{name: f, min: 1, max: 1}
		switch {
		case strings.HasSuffix(f, "*"):
			t = term{name: strings.TrimSuffix(f, "*"), min: 0, max: math.MaxInt}
		case strings.HasSuffix(f, "+"):
			t = term{name: strings.TrimSuffix(f, "+"), min: 1, max: math.MaxInt}
		case strings.HasSuffix(f, "?"):
			t = term{name: strings.TrimSuffix(f, "?"), min: 0, max: 1}
		}
		if t.name == "" || strings.ContainsAny(t.name, "*+?()|") {
			return nil, fmt.Errorf("bad content term %q", f)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Registry) accepts(t term, n *doc.Node) bool {
	if n.Type == t.name {
		return true
	}
	spec, ok := r.nodes[n.Type]
	return ok && spec.InGroup(t.name)
}

// match consumes children greedily term by term. On failure it returns the
// index of the first child that could not be placed, or len(children) when
// children ran out before a term reached its minimum.
func (r *Registry) match(e expr, children []*doc.Node) (int, error) {
	i := 0
	for _, t := range e {
		count := 0
		for i < len(children) && count < t.max && r.accepts(t, children[i]) {
			i++
			count++
		}
		if count < t.min {
			if i < len(children) {
				return i, fmt.Errorf("expected %s, found %s", describe(t), children[i].Type)
			}
			return i, fmt.Errorf("expected %s, found end of content", describe(t))
		}
	}
	if i < len(children) {
		return i, fmt.Errorf("unexpected %s", children[i].Type)
	}
	return -1, nil
}

func describe(t term) string {
	switch {
	case t.min == 1 && t.max == math.MaxInt:
		return "one or more " + t.name
	case t.min == 0 && t.max == 1:
		return "optional " + t.name
	default:
		return t.name
	}
}
