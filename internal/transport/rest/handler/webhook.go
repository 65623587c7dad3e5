package handler

import (
	"encoding/json"
	"net/http"

	"riskscreen/internal/model"
	"riskscreen/internal/service"
)

// WebhookHandler is the inbound front door for the chat transport
type WebhookHandler struct {
	surveySvc *service.SurveyService
	reportSvc *service.ReportService
	secret    string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(surveySvc *service.SurveyService, reportSvc *service.ReportService, secret string) *WebhookHandler {
	return &WebhookHandler{
		surveySvc: surveySvc,
		reportSvc: reportSvc,
		secret:    secret,
	}
}

// checkSecret guards the webhook against callers other than the relay
func (h *WebhookHandler) checkSecret(w http.ResponseWriter, r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	if r.Header.Get("X-Webhook-Secret") != h.secret {
		writeError(w, http.StatusUnauthorized, "invalid webhook secret")
		return false
	}
	return true
}

// Event handles POST /v1/webhook/events. A 200 means the event is consumed
// (including stale or invalid payloads); a 5xx means nothing was committed
// and the relay should redeliver.
func (h *WebhookHandler) Event(w http.ResponseWriter, r *http.Request) {
	if !h.checkSecret(w, r) {
		return
	}

	var ev model.InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ev.RespondentID == "" {
		writeError(w, http.StatusBadRequest, "respondentId is required")
		return
	}
	if ev.Kind != model.EventText && ev.Kind != model.EventSelection {
		writeError(w, http.StatusBadRequest, "unknown event kind")
		return
	}

	if err := h.surveySvc.HandleEvent(r.Context(), &ev); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReportRequest is the request body for filing an escalation report
type ReportRequest struct {
	RespondentID string `json:"respondentId"`
	Username     string `json:"username,omitempty"`
	Description  string `json:"description"`
}

// Report handles POST /v1/webhook/reports
func (h *WebhookHandler) Report(w http.ResponseWriter, r *http.Request) {
	if !h.checkSecret(w, r) {
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RespondentID == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "respondentId and description are required")
		return
	}

	report, err := h.reportSvc.File(r.Context(), req.RespondentID, req.Username, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"reportId": report.ID})
}
