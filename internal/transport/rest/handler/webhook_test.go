package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/model"
	"riskscreen/internal/scoring"
	"riskscreen/internal/service"
	"riskscreen/internal/survey"
)

const webhookSecret = "hook-secret"

type stubGateway struct {
	sent []string
}

func (g *stubGateway) SendPrompt(_ context.Context, _, text string, _ []model.Option) (string, error) {
	g.sent = append(g.sent, text)
	return "pm_1", nil
}

func (g *stubGateway) RetractPrompt(_ context.Context, _, _ string) error {
	return nil
}

type stubRespondentRepo struct {
	profiles map[string]*model.RespondentProfile
}

func (r *stubRespondentRepo) Get(_ context.Context, id string) (*model.RespondentProfile, error) {
	return r.profiles[id], nil
}

func (r *stubRespondentRepo) Upsert(_ context.Context, p *model.RespondentProfile) error {
	r.profiles[p.RespondentID] = p
	return nil
}

func (r *stubRespondentRepo) List(_ context.Context, _ int) ([]*model.RespondentProfile, error) {
	return nil, nil
}

func (r *stubRespondentRepo) BandSummary(_ context.Context) (*model.BandSummary, error) {
	return &model.BandSummary{}, nil
}

type stubCache struct{}

func (stubCache) MarkEvent(_ context.Context, _ string) (bool, error)       { return true, nil }
func (stubCache) ClearEvent(_ context.Context, _ string) error              { return nil }
func (stubCache) SetLastPrompt(_ context.Context, _, _ string) error        { return nil }
func (stubCache) GetLastPrompt(_ context.Context, _ string) (string, error) { return "", nil }
func (stubCache) ClearLastPrompt(_ context.Context, _ string) error         { return nil }

type stubReportRepo struct {
	created []*model.Report
}

func (r *stubReportRepo) Create(_ context.Context, report *model.Report) error {
	r.created = append(r.created, report)
	return nil
}

func (r *stubReportRepo) GetByID(_ context.Context, _ string) (*model.Report, error) {
	return nil, nil
}

func (r *stubReportRepo) List(_ context.Context, _ model.ReportStatus) ([]*model.Report, error) {
	return nil, nil
}

func (r *stubReportRepo) Close(_ context.Context, _, _ string) error { return nil }

const singleQuestion = `{"questions": [
  {"number": 1, "text": "Question 1", "answers": [{"text": "Yes", "points": 5}, {"text": "No", "points": 0}]}
]}`

func intPtr(v int) *int { return &v }

func singleBand() []scoring.BandRange {
	return []scoring.BandRange{
		{Band: model.BandLow, From: 0, To: intPtr(2)},
		{Band: model.BandHigh, From: 3},
	}
}

func newTestHandler(t *testing.T) (*WebhookHandler, *stubGateway, *stubReportRepo) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_14_15.json"), []byte(singleQuestion), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_16_17.json"), []byte(singleQuestion), 0o644))

	bank, err := survey.Load(dir)
	require.NoError(t, err)

	bands := map[string][]scoring.BandRange{
		"family":         singleBand(),
		"psychological":  singleBand(),
		"environment":    singleBand(),
		"school":         singleBand(),
		scoring.TotalKey: singleBand(),
	}
	tables := &scoring.Tables{
		Categories: map[model.AgeCategory]scoring.CategoryTables{
			model.AgeYoung: {
				Factors: []scoring.FactorRange{{Factor: model.FactorFamily, From: 1, To: 1}},
				Bands:   bands,
			},
			model.AgeOld: {
				Factors: []scoring.FactorRange{{Factor: model.FactorFamily, From: 1, To: 1}},
				Bands:   bands,
			},
		},
	}
	engine, err := scoring.NewEngine(bank, tables)
	require.NoError(t, err)

	gw := &stubGateway{}
	surveySvc := service.NewSurveyService(bank, engine,
		&stubRespondentRepo{profiles: make(map[string]*model.RespondentProfile)}, stubCache{}, gw)

	reportRepo := &stubReportRepo{}
	reportSvc := service.NewReportService(reportRepo, gw)

	return NewWebhookHandler(surveySvc, reportSvc, webhookSecret), gw, reportRepo
}

func postEvent(t *testing.T, h *WebhookHandler, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhook/events", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	rec := httptest.NewRecorder()
	h.Event(rec, req)
	return rec
}

func TestEventAccepted(t *testing.T) {
	h, gw, _ := newTestHandler(t)

	rec := postEvent(t, h, webhookSecret,
		`{"eventId": "ev1", "respondentId": "r1", "kind": "text", "text": "/start"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Len(t, gw.sent, 1)
}

func TestEventRejectsWrongSecret(t *testing.T) {
	h, gw, _ := newTestHandler(t)

	rec := postEvent(t, h, "wrong", `{"respondentId": "r1", "kind": "text", "text": "/start"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, gw.sent)

	rec = postEvent(t, h, "", `{"respondentId": "r1", "kind": "text", "text": "/start"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)

	cases := map[string]string{
		"not json":           `{{`,
		"missing respondent": `{"kind": "text", "text": "hi"}`,
		"unknown kind":       `{"respondentId": "r1", "kind": "voice"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postEvent(t, h, webhookSecret, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReportFiled(t *testing.T) {
	h, _, reportRepo := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhook/reports",
		strings.NewReader(`{"respondentId": "r1", "username": "anna", "description": "keyboard missing"}`))
	req.Header.Set("X-Webhook-Secret", webhookSecret)
	rec := httptest.NewRecorder()
	h.Report(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "reportId")
	require.Len(t, reportRepo.created, 1)
	assert.Equal(t, "keyboard missing", reportRepo.created[0].Description)
}

func TestReportValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhook/reports",
		strings.NewReader(`{"respondentId": "r1"}`))
	req.Header.Set("X-Webhook-Secret", webhookSecret)
	rec := httptest.NewRecorder()
	h.Report(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
