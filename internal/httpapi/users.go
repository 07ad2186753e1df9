package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/javajack/docfill/roster"
	"github.com/javajack/docfill/roster/importer"
)

// storeError maps storage errors to responses. notFound is the message sent for roster.ErrNotFound.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, roster.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, roster.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.requestLogger(r).Error("store operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) listMembersByRank(w http.ResponseWriter, r *http.Request) {
	rank := strings.ToUpper(chi.URLParam(r, "rank"))
	members, err := s.store.ListMembersByRank(r.Context(), rank)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) listMembersByMOS(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembersByMOS(r.Context(), chi.URLParam(r, "bilmos"))
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMember(r.Context(), chi.URLParam(r, "edipi"))
	if err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var m roster.Member
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.CreateMember(r.Context(), m); err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	writeMessage(w, http.StatusCreated, "User added successfully")
}

// updateMember replaces the member named by the path; an EDIPI in the body is ignored.
func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	var m roster.Member
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m.EDIPI = chi.URLParam(r, "edipi")
	if err := s.store.UpdateMember(r.Context(), m); err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMember(r.Context(), chi.URLParam(r, "edipi")); err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

type importResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// importMembers accepts a multipart "file" field or a raw CSV/XLSX body.
func (s *Server) importMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	name, contentType, data, err := s.readUpload(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := importer.DetectFormat(name, contentType, data)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	rows, rowErrs, err := importer.Read(format, bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := importer.Import(r.Context(), s.store, rows)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	resp := importResponse{Created: sum.Created, Updated: sum.Updated, Errors: []string{}}
	for _, e := range rowErrs {
		resp.Errors = append(resp.Errors, e.Error())
	}
	resp.Errors = append(resp.Errors, sum.Errors()...)
	s.requestLogger(r).Info("roster imported",
		zap.String("format", string(format)),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("errors", len(resp.Errors)))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exportMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	var buf bytes.Buffer
	if err := importer.WriteXLSX(&buf, members); err != nil {
		s.requestLogger(r).Error("export roster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "roster.xlsx", buf.Bytes())
}

// readUpload returns the named multipart file, or the whole body for other content types.
func (s *Server) readUpload(r *http.Request, field string) (name, contentType string, data []byte, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return "", "", nil, err
		}
		f, hdr, err := r.FormFile(field)
		if err != nil {
			return "", "", nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", "", nil, err
		}
		return hdr.Filename, hdr.Header.Get("Content-Type"), data, nil
	}
	data, err = io.ReadAll(r.Body)
	if err != nil {
		return "", "", nil, err
	}
	if len(data) == 0 {
		return "", "", nil, errors.New("request body is empty")
	}
	return "", r.Header.Get("Content-Type"), data, nil
}
