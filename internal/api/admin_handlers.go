package api

import (
	"errors"
	"net/http"

	"github.com/isayev/coinstack-sub001/internal/jobs"
)

func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		JobID string `json:"job_id"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	err := s.app.JobManager().RunJob(payload.JobID, s.app)
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		RespondWithError(w, http.StatusConflict, err.Error()) // 409 Conflict if the job is already running
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Job '" + payload.JobID + "' started successfully.",
	})
}

func (s *Server) handleGetJobsStatus(w http.ResponseWriter, r *http.Request) {
	statuses := s.app.JobManager().GetStatus()
	RespondWithJSON(w, http.StatusOK, statuses)
}
