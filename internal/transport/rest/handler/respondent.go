package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"riskscreen/internal/repository"
)

// RespondentHandler handles operator endpoints for screening results
type RespondentHandler struct {
	respondents repository.RespondentRepo
}

// NewRespondentHandler creates a new respondent handler
func NewRespondentHandler(respondents repository.RespondentRepo) *RespondentHandler {
	return &RespondentHandler{respondents: respondents}
}

// List handles GET /v1/respondents
func (h *RespondentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	profiles, err := h.respondents.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"respondents": profiles})
}

// Get handles GET /v1/respondents/{respondentId}
func (h *RespondentHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondentID := mux.Vars(r)["respondentId"]

	profile, err := h.respondents.Get(r.Context(), respondentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "respondent not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Summary handles GET /v1/respondents/summary
func (h *RespondentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.respondents.BandSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
