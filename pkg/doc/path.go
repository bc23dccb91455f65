package doc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path addresses a node by the child indices walked from the root.
// The empty path is the root.
type Path []int

// ParsePath parses the "/0/2/1" form produced by [Path.String]. Both "" and
// "/" parse to the root path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return Path{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("path %q: must start with /", s)
	}
	parts := strings.Split(strings.TrimPrefix(s, "/"), "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("path %q: bad index %q", s, part)
		}
		p[i] = n
	}
	return p, nil
}

// String renders the path as "/0/2/1"; the root renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// Child returns the path of the i-th child of the node at p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Split returns the parent path and the last index. It panics on the root
// path; callers check len(p) first.
func (p Path) Split() (Path, int) {
	return p[:len(p)-1].Clone(), p[len(p)-1]
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(o Path) bool { return slices.Equal(p, o) }

// HasPrefix reports whether p lies inside (or is) the subtree at prefix.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}
