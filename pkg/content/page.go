package content

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Page is an ordered collection of sections addressed by slug.
type Page struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       int      `json:"order"`
	Sections    []string `json:"sections,omitempty"`
}

// ValidateSlug checks that slug is non-empty lowercase words joined by
// hyphens, e.g. "faculty-and-staff".
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return errors.InvalidArgument("invalid slug %q: use lowercase letters, digits and single hyphens", slug)
	}
	return nil
}

// Validate checks the page fields.
func (p *Page) Validate() error {
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.InvalidArgument("page %s: title is required", p.Slug)
	}
	seen := make(map[string]bool, len(p.Sections))
	for _, id := range p.Sections {
		if seen[id] {
			return errors.InvalidArgument("page %s: section %s listed twice", p.Slug, id)
		}
		seen[id] = true
	}
	return nil
}

// SortSections orders sections by Order, then ID for stability.
func SortSections(sections []*Section) {
	slices.SortStableFunc(sections, func(a, b *Section) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ValidateOrders reports an error when two sections of a page share an order.
func ValidateOrders(sections []*Section) error {
	seen := make(map[int]string, len(sections))
	for _, s := range sections {
		if other, ok := seen[s.Order]; ok {
			return errors.InvariantViolation("sections %s and %s share order %d", other, s.ID, s.Order)
		}
		seen[s.Order] = s.ID
	}
	return nil
}

// Reorder assigns orders 0..n-1 to sections following ids. The assignment is
// total: ids must name every section exactly once, or nothing changes.
func Reorder(sections []*Section, ids []string) error {
	if len(ids) != len(sections) {
		return errors.InvalidArgument("reorder lists %d sections, page has %d", len(ids), len(sections))
	}
	byID := make(map[string]*Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := byID[id]; !ok {
			return errors.InvalidArgument("reorder: unknown section %s", id)
		}
		if _, dup := pos[id]; dup {
			return errors.InvalidArgument("reorder: section %s listed twice", id)
		}
		pos[id] = i
	}
	for id, i := range pos {
		byID[id].Order = i
	}
	SortSections(sections)
	return nil
}
