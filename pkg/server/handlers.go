package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pagecraft/pkg/content"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/editor"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/layout"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// Pages
// ============================================================================

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.store.GetPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) putPage(w http.ResponseWriter, r *http.Request) {
	var page content.Page
	if err := decode(w, r, &page); err != nil {
		s.writeError(w, r, err)
		return
	}
	page.Slug = chi.URLParam(r, "slug")
	out, err := s.store.PutPage(r.Context(), &page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listSections(w http.ResponseWriter, r *http.Request) {
	secs, err := s.store.ListSections(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, secs)
}

type reorderRequest struct {
	Sections []string `json:"sections"`
}

func (s *Server) reorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	secs, err := s.store.ReorderSections(r.Context(), chi.URLParam(r, "slug"), req.Sections)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, secs)
}

// ============================================================================
// Sections
// ============================================================================

func (s *Server) getSection(w http.ResponseWriter, r *http.Request) {
	sec, err := s.store.GetSection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) putSection(w http.ResponseWriter, r *http.Request) {
	var sec content.Section
	if err := decode(w, r, &sec); err != nil {
		s.writeError(w, r, err)
		return
	}
	sec.ID = chi.URLParam(r, "id")
	out, err := s.store.PutSection(r.Context(), &sec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteSection(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSection(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Commands
// ============================================================================

type commandRequest struct {
	layout.Request
	// Cursor places the cursor before the command runs, e.g. "/0/1".
	Cursor string `json:"cursor,omitempty"`
}

type commandResponse struct {
	Applied  bool            `json:"applied"`
	Content  json.RawMessage `json:"content"`
	Revision string          `json:"revision"`
}

// runCommand applies one layout command to a rich-text section. The body is
// loaded into a fresh editing session, so the stored document is read,
// edited and written back as one unit; a rejected command leaves the stored
// section untouched.
func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req commandRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd, err := layout.ParseCommand(req.Request)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sec, err := s.store.GetSection(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := sec.Document()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := editor.Load(body, editor.Options{
		Registry:     s.reg,
		HistoryDepth: s.historyDepth,
		Logger:       s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Cursor != "" {
		p, err := doc.ParsePath(req.Cursor)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "bad cursor"))
			return
		}
		if err := sess.SetCursor(p); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	applied, err := sess.Exec(ctx, cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if applied && sess.Dirty() {
		data, err := sess.Snapshot()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := sec.SetDocument(data); err != nil {
			s.writeError(w, r, err)
			return
		}
		if sec, err = s.store.PutSection(ctx, sec); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: applied, Content: sec.Content, Revision: sec.Revision})
}
