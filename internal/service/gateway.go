package service

import (
	"context"

	"riskscreen/internal/model"
)

// Gateway is the outbound side of the chat transport. The service is
// agnostic to the wire protocol; it only needs to render a text prompt with
// zero or more selectable options and to retract a previous prompt.
type Gateway interface {
	// SendPrompt delivers text with optional selection buttons and returns
	// the transport's id for the posted prompt.
	SendPrompt(ctx context.Context, respondentID, text string, options []model.Option) (string, error)
	// RetractPrompt removes a previously posted prompt. Callers treat
	// failures as non-fatal.
	RetractPrompt(ctx context.Context, respondentID, promptID string) error
}
