// Package httpapi serves the roster CRUD API and the document fill endpoints.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/javajack/docfill"
	"github.com/javajack/docfill/mapping"
	"github.com/javajack/docfill/roster"
)

// Deps are the collaborators of a Server.
type Deps struct {
	Store          roster.Store
	Mapping        *mapping.Mapping
	TemplatePath   string // template used by /documents/fill and /counseling
	Font           docfill.Font
	Logger         *zap.Logger
	MaxUploadBytes int64
	Now            func() time.Time
}

// Server holds the handler state.
type Server struct {
	store     roster.Store
	mapping   *mapping.Mapping
	template  string
	font      docfill.Font
	logger    *zap.Logger
	maxUpload int64
	now       func() time.Time
}

const defaultMaxUpload = 10 << 20

// New creates a Server. Zero-valued optional deps get defaults.
func New(d Deps) *Server {
	s := &Server{
		store:     d.Store,
		mapping:   d.Mapping,
		template:  d.TemplatePath,
		font:      d.Font,
		logger:    d.Logger,
		maxUpload: d.MaxUploadBytes,
		now:       d.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.font == (docfill.Font{}) {
		s.font = docfill.DefaultFont
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.mapping != nil && s.mapping.Template != "" {
		s.template = s.mapping.Template
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello"))
	})
	r.Get("/healthz", s.health)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.listMembers)
		r.Post("/", s.createMember)
		r.Post("/import", s.importMembers)
		r.Get("/export", s.exportMembers)
		r.Get("/rank/{rank}", s.listMembersByRank)
		r.Get("/mos/{bilmos}", s.listMembersByMOS)
		r.Get("/{edipi}", s.getMember)
		r.Put("/{edipi}", s.updateMember)
		r.Delete("/{edipi}", s.deleteMember)
	})

	r.Route("/mosdesc", func(r chi.Router) {
		r.Get("/", s.listMOS)
		r.Post("/", s.createMOS)
		r.Get("/{bilmos}", s.getMOS)
		r.Put("/{bilmos}", s.updateMOS)
		r.Delete("/{bilmos}", s.deleteMOS)
	})

	r.Get("/tables", s.tables)
	r.Post("/documents/fill", s.fillDocument)
	r.Post("/counseling/{edipi}", s.fillCounseling)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Tables(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
