package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"riskscreen/internal/model"
	"riskscreen/internal/repository"
)

var ErrReportNotFound = errors.New("report not found")

// ReportService handles the escalation side channel: respondents file
// free-text reports, operators reply through the gateway. Reports never
// touch the screening state machine.
type ReportService struct {
	reportRepo  repository.ReportRepo
	gateway     Gateway
	broadcaster Broadcaster
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepo, gateway Gateway) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		gateway:    gateway,
	}
}

// SetBroadcaster sets the broadcaster for operator feed events
func (s *ReportService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// File stores a new report and notifies connected operators
func (s *ReportService) File(ctx context.Context, respondentID, username, description string) (*model.Report, error) {
	report := &model.Report{
		ID:           "rp_" + uuid.New().String()[:8],
		RespondentID: respondentID,
		Username:     username,
		Description:  description,
		Status:       model.ReportOpen,
		CreatedAt:    time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOperators("report_filed", report)
	}

	return report, nil
}

// List returns reports, optionally filtered by status
func (s *ReportService) List(ctx context.Context, status model.ReportStatus) ([]*model.Report, error) {
	return s.reportRepo.List(ctx, status)
}

// Reply relays an operator answer to the respondent and closes the report
func (s *ReportService) Reply(ctx context.Context, reportID, reply string) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if report == nil {
		return ErrReportNotFound
	}

	if _, err := s.gateway.SendPrompt(ctx, report.RespondentID, reply, nil); err != nil {
		return fmt.Errorf("relay reply: %w", err)
	}

	if err := s.reportRepo.Close(ctx, reportID, reply); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
