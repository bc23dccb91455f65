// Package content models the pages and sections that rich-text documents
// live in.
//
// A [Page] is an ordered list of [Section] values. Each section carries a
// JSON content payload whose shape is fixed by the section's [SectionType];
// [DecodeContent] enforces that shape strictly, so fields of one type never
// leak into another. Rich-text bodies are full documents and are checked by
// the document serializer.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/io"
)

// SectionType tags the shape of a section's content.
type SectionType string

const (
	TypeRichText SectionType = "richText"
	TypeHero     SectionType = "hero"
	TypeTimeline SectionType = "timeline"
	TypePeople   SectionType = "people"
	TypeCourses  SectionType = "courses"
	TypeGallery  SectionType = "gallery"
)

// SectionTypes lists every section type.
var SectionTypes = []SectionType{TypeRichText, TypeHero, TypeTimeline, TypePeople, TypeCourses, TypeGallery}

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	for _, v := range SectionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Section is one typed block of a page.
type Section struct {
	ID        string          `json:"id"`
	Page      string          `json:"page"`
	Type      SectionType     `json:"type"`
	Title     string          `json:"title"`
	Order     int             `json:"order"`
	Content   json.RawMessage `json:"content"`
	MediaIDs  []string        `json:"mediaIds,omitempty"`
	Revision  string          `json:"revision,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewID returns a fresh section or page identifier.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id is a UUID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// RichTextContent holds a document tree in its canonical JSON form.
type RichTextContent struct {
	Body json.RawMessage `json:"body"`
}

// HeroContent is a page banner.
type HeroContent struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	ImageID    string `json:"imageId,omitempty"`
}

// TimelineEntry is one dated event.
type TimelineEntry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TimelineContent lists events in display order.
type TimelineContent struct {
	Entries []TimelineEntry `json:"entries"`
}

// Person is one roster entry.
type Person struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Bio     string `json:"bio,omitempty"`
	ImageID string `json:"imageId,omitempty"`
}

// PeopleContent is a roster.
type PeopleContent struct {
	People []Person `json:"people"`
}

// Course is one catalog entry.
type Course struct {
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Credits     float64 `json:"credits,omitempty"`
	Description string  `json:"description,omitempty"`
}

// CoursesContent is a course catalog.
type CoursesContent struct {
	Courses []Course `json:"courses"`
}

// GalleryContent shows the section's media in order.
type GalleryContent struct {
	Caption string `json:"caption,omitempty"`
}

// DecodeContent decodes raw as the content of a section of type t. Unknown
// fields fail with SCHEMA_VIOLATION; a rich-text body that is not a valid
// document fails with the serializer's error.
func DecodeContent(t SectionType, raw json.RawMessage) (any, error) {
	var v any
	switch t {
	case TypeRichText:
		v = &RichTextContent{}
	case TypeHero:
		v = &HeroContent{}
	case TypeTimeline:
		v = &TimelineContent{}
	case TypePeople:
		v = &PeopleContent{}
	case TypeCourses:
		v = &CoursesContent{}
	case TypeGallery:
		v = &GalleryContent{}
	default:
		return nil, errors.InvalidArgument("unknown section type %q", t)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaViolation, err, "%s content", t)
	}

	if rt, ok := v.(*RichTextContent); ok {
		if err := checkBody(rt); err != nil {
			return nil, err
		}
	}
	if err := checkRequired(v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkBody validates the document and rewrites it in canonical form.
func checkBody(rt *RichTextContent) error {
	if len(rt.Body) == 0 {
		return errors.SchemaViolation("", "richText content requires a body")
	}
	root, err := io.Deserialize(rt.Body)
	if err != nil {
		return err
	}
	canonical, err := io.Serialize(root)
	if err != nil {
		return err
	}
	rt.Body = canonical
	return nil
}

func checkRequired(v any) error {
	missing := func(field string) error {
		return errors.SchemaViolation("", "missing required field %q", field)
	}
	switch c := v.(type) {
	case *HeroContent:
		if c.Heading == "" {
			return missing("heading")
		}
	case *TimelineContent:
		for i, e := range c.Entries {
			if e.Date == "" || e.Title == "" {
				return missing(fmt.Sprintf("entries[%d].date/title", i))
			}
		}
	case *PeopleContent:
		for i, p := range c.People {
			if p.Name == "" {
				return missing(fmt.Sprintf("people[%d].name", i))
			}
		}
	case *CoursesContent:
		for i, co := range c.Courses {
			if co.Code == "" || co.Title == "" {
				return missing(fmt.Sprintf("courses[%d].code/title", i))
			}
		}
	}
	return nil
}

// Canonicalize decodes the section content and re-encodes it, so that stored
// content never carries formatting or ordering noise.
func (s *Section) Canonicalize() error {
	v, err := DecodeContent(s.Type, s.Content)
	if err != nil {
		return err
	}
	data, err := marshal(v)
	if err != nil {
		return err
	}
	s.Content = data
	return nil
}

// marshal encodes compactly without HTML escaping, matching the document
// serializer.
func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode content")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Document returns the rich-text body of s in canonical JSON form.
// It fails with INVALID_ARGUMENT for sections of other types.
func (s *Section) Document() (json.RawMessage, error) {
	if s.Type != TypeRichText {
		return nil, errors.InvalidArgument("section %s is %s, not %s", s.ID, s.Type, TypeRichText)
	}
	v, err := DecodeContent(s.Type, s.Content)
	if err != nil {
		return nil, err
	}
	return v.(*RichTextContent).Body, nil
}

// SetDocument replaces the rich-text body of s.
func (s *Section) SetDocument(body json.RawMessage) error {
	if s.Type != TypeRichText {
		return errors.InvalidArgument("section %s is %s, not %s", s.ID, s.Type, TypeRichText)
	}
	if _, err := io.Deserialize(body); err != nil {
		return err
	}
	data, err := marshal(RichTextContent{Body: body})
	if err != nil {
		return err
	}
	s.Content = data
	return s.Canonicalize()
}
