package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/javajack/docfill/roster"
)

const mosNotFound = "MOS description not found"

func (s *Server) listMOS(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListMOS(r.Context())
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getMOS(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMOS(r.Context(), chi.URLParam(r, "bilmos"))
	if err != nil {
		s.storeError(w, r, err, mosNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createMOS(w http.ResponseWriter, r *http.Request) {
	var m roster.MOS
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.CreateMOS(r.Context(), m); err != nil {
		s.storeError(w, r, err, mosNotFound)
		return
	}
	writeMessage(w, http.StatusCreated, "MOS description added successfully")
}

func (s *Server) updateMOS(w http.ResponseWriter, r *http.Request) {
	var m roster.MOS
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m.BilMOS = chi.URLParam(r, "bilmos")
	if err := s.store.UpdateMOS(r.Context(), m); err != nil {
		s.storeError(w, r, err, mosNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "MOS description updated successfully")
}

func (s *Server) deleteMOS(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMOS(r.Context(), chi.URLParam(r, "bilmos")); err != nil {
		s.storeError(w, r, err, mosNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "MOS description deleted successfully")
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Tables(r.Context())
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tables": names})
}
