package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/model"
)

type fakeReportRepo struct {
	reports map[string]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, report *model.Report) error {
	cp := *report
	r.reports[report.ID] = &cp
	return nil
}

func (r *fakeReportRepo) GetByID(_ context.Context, id string) (*model.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *report
	return &cp, nil
}

func (r *fakeReportRepo) List(_ context.Context, status model.ReportStatus) ([]*model.Report, error) {
	var out []*model.Report
	for _, report := range r.reports {
		if status != "" && report.Status != status {
			continue
		}
		cp := *report
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeReportRepo) Close(_ context.Context, id, reply string) error {
	report, ok := r.reports[id]
	if !ok {
		return nil
	}
	now := time.Now()
	report.Status = model.ReportClosed
	report.Reply = reply
	report.ClosedAt = &now
	return nil
}

func TestFileReport(t *testing.T) {
	repo := newFakeReportRepo()
	gw := &fakeGateway{}
	bc := &fakeBroadcaster{}

	svc := NewReportService(repo, gw)
	svc.SetBroadcaster(bc)

	report, err := svc.File(context.Background(), "r1", "anna", "the last question did not load")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report.ID, "rp_"))
	assert.Equal(t, model.ReportOpen, report.Status)

	stored, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "the last question did not load", stored.Description)

	require.Len(t, bc.records, 1)
	assert.Equal(t, "report_filed", bc.records[0].Event)
}

func TestReplyClosesReport(t *testing.T) {
	repo := newFakeReportRepo()
	gw := &fakeGateway{}

	svc := NewReportService(repo, gw)
	report, err := svc.File(context.Background(), "r1", "anna", "problem")
	require.NoError(t, err)

	require.NoError(t, svc.Reply(context.Background(), report.ID, "Thanks, fixed"))

	// The reply reached the respondent through the gateway
	require.Len(t, gw.sent, 1)
	assert.Equal(t, "r1", gw.sent[0].RespondentID)
	assert.Equal(t, "Thanks, fixed", gw.sent[0].Text)

	stored, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportClosed, stored.Status)
	assert.Equal(t, "Thanks, fixed", stored.Reply)
	assert.NotNil(t, stored.ClosedAt)
}

func TestReplyUnknownReport(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), &fakeGateway{})
	err := svc.Reply(context.Background(), "rp_missing", "hello")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListReportsByStatus(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, &fakeGateway{})

	first, err := svc.File(context.Background(), "r1", "", "first")
	require.NoError(t, err)
	_, err = svc.File(context.Background(), "r2", "", "second")
	require.NoError(t, err)

	require.NoError(t, svc.Reply(context.Background(), first.ID, "done"))

	open, err := svc.List(context.Background(), model.ReportOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "second", open[0].Description)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
