package model

import "time"

// ReportStatus is the lifecycle of an escalation report
type ReportStatus string

const (
	ReportOpen   ReportStatus = "open"
	ReportClosed ReportStatus = "closed"
)

// Report is a free-text problem report filed by a respondent and answered
// by an operator. Reports sit outside the screening state machine.
type Report struct {
	ID           string       `json:"id" bson:"_id"`
	RespondentID string       `json:"respondentId" bson:"respondentId"`
	Username     string       `json:"username,omitempty" bson:"username,omitempty"`
	Description  string       `json:"description" bson:"description"`
	Status       ReportStatus `json:"status" bson:"status"`
	Reply        string       `json:"reply,omitempty" bson:"reply,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
	ClosedAt     *time.Time   `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}
