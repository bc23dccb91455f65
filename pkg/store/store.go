// Package store persists pages and sections over a pluggable key/value
// [Backend].
//
// Backends:
//   - [MemoryBackend]: in-process, for tests and throwaway servers
//   - [FileBackend]: one file per key, written atomically (CLI, single host)
//   - [RedisBackend]: shared state for several server instances
//   - [MongoBackend]: durable document storage
//
// The store treats rich-text documents as opaque JSON, as stored by the
// document serializer; all document validity comes from the layers above.
// Section content is still checked against its section type before it is
// written, so a section never carries fields of another type.
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/matzehuels/pagecraft/pkg/content"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/observability"
)

// ErrNotFound is returned when a requested page or section does not exist.
// Store methods wrap it in a NOT_FOUND error.
var ErrNotFound = stderrors.New("not found")

const (
	kindPage    = "page"
	kindSection = "section"
)

func pageKey(slug string) string  { return "page:" + slug }
func sectionKey(id string) string { return "section:" + id }

// Store reads and writes pages and sections.
type Store struct {
	backend Backend
	// mu serializes read-modify-write sequences spanning several keys.
	mu sync.Mutex
	// now is replaceable in tests.
	now func() time.Time
}

// New returns a store over backend.
func New(backend Backend) *Store {
	return &Store{backend: backend, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

func notFound(kind, key string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "%s %q", kind, key)
}

func (s *Store) load(ctx context.Context, kind, key string, v any) error {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load %s", key)
	}
	observability.Store().OnLoad(ctx, kind, key, ok)
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeCorruptDocument, err, "decode %s", key)
	}
	return nil
}

func (s *Store) save(ctx context.Context, kind, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", key)
	}
	err = s.backend.Set(ctx, key, data)
	observability.Store().OnSave(ctx, kind, key, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", key)
	}
	return nil
}

// GetPage returns the page with the given slug.
func (s *Store) GetPage(ctx context.Context, slug string) (*content.Page, error) {
	var p content.Page
	if err := s.load(ctx, kindPage, pageKey(slug), &p); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, notFound(kindPage, slug)
		}
		return nil, err
	}
	return &p, nil
}

// PutPage creates or updates a page. The section list is owned by the store
// and cannot be changed here; use [Store.PutSection], [Store.DeleteSection]
// and [Store.ReorderSections].
func (s *Store) PutPage(ctx context.Context, p *content.Page) (*content.Page, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *p
	existing, err := s.GetPage(ctx, p.Slug)
	switch {
	case err == nil:
		out.ID = existing.ID
		out.Sections = existing.Sections
	case errors.Is(err, errors.ErrCodeNotFound):
		out.ID = content.NewID()
		out.Sections = nil
	default:
		return nil, err
	}
	if err := s.save(ctx, kindPage, pageKey(out.Slug), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSection returns the section with the given ID.
func (s *Store) GetSection(ctx context.Context, id string) (*content.Section, error) {
	var sec content.Section
	if err := s.load(ctx, kindSection, sectionKey(id), &sec); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, notFound(kindSection, id)
		}
		return nil, err
	}
	return &sec, nil
}

// PutSection creates or updates a section of the page sec.Page.
//
// Content is checked and canonicalized for the section type. A new section
// gets an ID if it has none and is appended after the page's last section;
// an existing section keeps its page, order and creation time. The returned
// section carries the SHA-256 revision of its content.
func (s *Store) PutSection(ctx context.Context, sec *content.Section) (*content.Section, error) {
	if !sec.Type.Valid() {
		return nil, errors.InvalidArgument("unknown section type %q", sec.Type)
	}
	out := *sec
	if err := out.Canonicalize(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var page *content.Page
	existing, err := s.GetSection(ctx, out.ID)
	switch {
	case out.ID != "" && err == nil:
		if existing.Type != out.Type {
			return nil, errors.InvalidArgument("section %s is %s; its type cannot change", out.ID, existing.Type)
		}
		out.Page = existing.Page
		out.Order = existing.Order
		out.CreatedAt = existing.CreatedAt
	case out.ID == "" || errors.Is(err, errors.ErrCodeNotFound):
		if out.ID == "" {
			out.ID = content.NewID()
		} else if !content.ValidID(out.ID) {
			return nil, errors.InvalidArgument("section id %q is not a UUID", out.ID)
		}
		page, err = s.GetPage(ctx, out.Page)
		if err != nil {
			return nil, err
		}
		out.Order = len(page.Sections)
		out.CreatedAt = now
		page.Sections = append(page.Sections, out.ID)
	default:
		return nil, err
	}
	out.UpdatedAt = now
	out.Revision = Hash(out.Content)

	if err := s.save(ctx, kindSection, sectionKey(out.ID), &out); err != nil {
		return nil, err
	}
	if page != nil {
		if err := s.save(ctx, kindPage, pageKey(page.Slug), page); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// DeleteSection removes a section and renumbers the remaining sections of
// its page.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.GetSection(ctx, id)
	if err != nil {
		return err
	}
	page, err := s.GetPage(ctx, sec.Page)
	if err != nil {
		return err
	}
	remaining := make([]string, 0, len(page.Sections))
	for _, sid := range page.Sections {
		if sid != id {
			remaining = append(remaining, sid)
		}
	}
	page.Sections = remaining
	// The page must stop listing the section before its key goes away.
	if _, err := s.reorder(ctx, page, remaining); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, sectionKey(id)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete section %s", id)
	}
	return nil
}

// ListSections returns the sections of a page ordered by Order.
func (s *Store) ListSections(ctx context.Context, slug string) ([]*content.Section, error) {
	page, err := s.GetPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.sections(ctx, page)
}

func (s *Store) sections(ctx context.Context, page *content.Page) ([]*content.Section, error) {
	out := make([]*content.Section, 0, len(page.Sections))
	for _, id := range page.Sections {
		sec, err := s.GetSection(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	content.SortSections(out)
	return out, nil
}

// ReorderSections assigns new orders to every section of a page. ids must be
// a permutation of the page's sections.
func (s *Store) ReorderSections(ctx context.Context, slug string, ids []string) ([]*content.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.GetPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.reorder(ctx, page, ids)
}

func (s *Store) reorder(ctx context.Context, page *content.Page, ids []string) ([]*content.Section, error) {
	secs, err := s.sections(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := content.Reorder(secs, ids); err != nil {
		return nil, err
	}
	for _, sec := range secs {
		if err := s.save(ctx, kindSection, sectionKey(sec.ID), sec); err != nil {
			return nil, err
		}
	}
	page.Sections = append([]string(nil), ids...)
	if err := s.save(ctx, kindPage, pageKey(page.Slug), page); err != nil {
		return nil, err
	}
	return secs, nil
}
