package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feeledger/feeledger/internal/models"
)

type studentInput struct {
	Name          string `json:"name"`
	Grade         string `json:"grade"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	Active        *bool  `json:"active,omitempty"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.students.List(r.Context())
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var in studentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	st := &models.Student{
		Name:          in.Name,
		Grade:         in.Grade,
		GuardianName:  in.GuardianName,
		GuardianPhone: in.GuardianPhone,
	}
	if err := s.students.Create(r.Context(), st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := s.students.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current, err := s.students.Get(r.Context(), id)
	if err != nil {
		writeStoreAware(w, err)
		return
	}

	var in studentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	current.Name = in.Name
	current.Grade = in.Grade
	current.GuardianName = in.GuardianName
	current.GuardianPhone = in.GuardianPhone
	if in.Active != nil {
		current.Active = *in.Active
	}
	if err := s.students.Update(r.Context(), current); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.students.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreAware(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

func (s *Server) handleInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.payments.InstallmentPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	if catalog == nil {
		catalog = []models.Installment{}
	}
	writeJSON(w, http.StatusOK, catalog)
}
