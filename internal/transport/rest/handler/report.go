package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"riskscreen/internal/model"
	"riskscreen/internal/service"
)

// ReportHandler handles operator endpoints for escalation reports
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// List handles GET /v1/reports?status=open
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.ReportStatus(r.URL.Query().Get("status"))

	reports, err := h.reportSvc.List(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// ReplyRequest is the request body for answering a report
type ReplyRequest struct {
	Text string `json:"text"`
}

// Reply handles POST /v1/reports/{reportId}/reply
func (h *ReportHandler) Reply(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["reportId"]

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if err := h.reportSvc.Reply(r.Context(), reportID, req.Text); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
