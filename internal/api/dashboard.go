package api

import (
	"net/http"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.fees.Dashboard(
		r.Context(),
		r.URL.Query().Get("student_id"),
		time.Now().Format("2006-01-02"),
	)
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
