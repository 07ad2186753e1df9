package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/javajack/docfill"
	"github.com/javajack/docfill/roster"
)

// fillDocument fills a template from a JSON field map. The body is either the
// raw field map, filled into the configured template, or a multipart form with
// a "template" file and a "fields" value.
func (s *Server) fillDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	log := s.requestLogger(r)

	opts := []docfill.Option{docfill.WithFont(s.font), docfill.WithLogger(log)}
	uploaded := false
	var fieldJSON []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		_, _, tmpl, err := s.readUpload(r, "template")
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("template: %v", err))
			return
		}
		opts = append(opts, docfill.WithTemplateBytes(tmpl))
		uploaded = true
		fieldJSON = []byte(r.FormValue("fields"))
	} else {
		if s.template == "" {
			writeError(w, http.StatusBadRequest, "no template configured; upload one as multipart form data")
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, docfill.WithTemplate(s.template))
		fieldJSON = data
	}

	res, err := docfill.NewFiller(opts...).FillJSON(fieldJSON)
	s.respondFill(w, r, res, err, uploaded, "filled.docx")
}

// fillCounseling fills the configured template for one roster member. An
// optional JSON field map in the body overrides the mapped values.
func (s *Server) fillCounseling(w http.ResponseWriter, r *http.Request) {
	if s.mapping == nil {
		writeError(w, http.StatusNotImplemented, "no field mapping configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	edipi := chi.URLParam(r, "edipi")

	overrides := docfill.FieldMap{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if overrides, err = docfill.ParseFieldMap(body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	member, err := s.store.GetMember(r.Context(), edipi)
	if err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	fields, err := s.mapping.ForMember(r.Context(), s.store, edipi, s.now())
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			s.storeError(w, r, err, "User not found")
			return
		}
		s.requestLogger(r).Error("build field map", zap.String("edipi", edipi), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	f := docfill.NewFiller(
		docfill.WithTemplate(s.template),
		docfill.WithFont(s.font),
		docfill.WithLogger(s.requestLogger(r)),
	)
	res, err := f.Fill(fields.Merge(overrides))
	s.respondFill(w, r, res, err, false, fmt.Sprintf("counseling_%s.docx", member.LastName))
}

// respondFill writes the document, or the Result as JSON when ?report=true or
// the fill failed.
func (s *Server) respondFill(w http.ResponseWriter, r *http.Request, res *docfill.Result, err error, uploaded bool, filename string) {
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, docfill.ErrInvalidFieldMap):
			status = http.StatusBadRequest
		case uploaded && errors.Is(err, docfill.ErrTemplateUnreadable):
			status = http.StatusBadRequest
		default:
			s.requestLogger(r).Error("fill document", zap.Error(err))
		}
		writeJSON(w, status, res)
		return
	}
	if r.URL.Query().Get("report") == "true" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeAttachment(w, docxContentType, filename, res.Document)
}
