package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EventKind is the shape of an inbound transport event
type EventKind string

const (
	EventText      EventKind = "text"
	EventSelection EventKind = "selection"
)

// Conversation commands carried as plain text
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
)

// InboundEvent is one delivery from the chat transport
type InboundEvent struct {
	EventID      string    `json:"eventId,omitempty"`
	RespondentID string    `json:"respondentId"`
	Username     string    `json:"username,omitempty"`
	Kind         EventKind `json:"kind"`
	Text         string    `json:"text,omitempty"`
	Data         string    `json:"data,omitempty"` // callback data for selections
}

// Option is one selectable keyboard button on an outbound prompt
type Option struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// ErrBadSelectionData marks callback data that does not parse
var ErrBadSelectionData = errors.New("malformed selection data")

// Callback data prefixes; the transport echoes the data string back
// unchanged when the respondent taps the button.
const (
	confirmPrefix  = "confirm"
	categoryPrefix = "cat"
	answerPrefix   = "ans"
)

// ConfirmData encodes a yes/no identity confirmation selection
func ConfirmData(yes bool) string {
	if yes {
		return confirmPrefix + ":yes"
	}
	return confirmPrefix + ":no"
}

// ParseConfirmData decodes a confirmation selection
func ParseConfirmData(data string) (bool, error) {
	switch data {
	case confirmPrefix + ":yes":
		return true, nil
	case confirmPrefix + ":no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrBadSelectionData, data)
}

// CategoryData encodes an age category selection
func CategoryData(c AgeCategory) string {
	return categoryPrefix + ":" + string(c)
}

// ParseCategoryData decodes an age category selection
func ParseCategoryData(data string) (AgeCategory, error) {
	rest, ok := strings.CutPrefix(data, categoryPrefix+":")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadSelectionData, data)
	}
	c := AgeCategory(rest)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrBadSelectionData, rest)
	}
	return c, nil
}

// AnswerSelection is a decoded answer button payload. The ordinal pins the
// selection to one question instance so a redelivered or stale button press
// can be told apart from the live one even when consecutive questions map to
// the same factor.
type AnswerSelection struct {
	Ordinal int
	Factor  Factor
	Points  int
}

// AnswerData encodes an answer selection as callback data
func AnswerData(sel AnswerSelection) string {
	return fmt.Sprintf("%s:%d:%s:%d", answerPrefix, sel.Ordinal, sel.Factor, sel.Points)
}

// ParseAnswerData decodes an answer selection
func ParseAnswerData(data string) (AnswerSelection, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != answerPrefix {
		return AnswerSelection{}, fmt.Errorf("%w: %q", ErrBadSelectionData, data)
	}

	ordinal, err := strconv.Atoi(parts[1])
	if err != nil {
		return AnswerSelection{}, fmt.Errorf("%w: bad ordinal in %q", ErrBadSelectionData, data)
	}

	factor := Factor(parts[2])
	if !factor.Valid() {
		return AnswerSelection{}, fmt.Errorf("%w: unknown factor %q", ErrBadSelectionData, parts[2])
	}

	points, err := strconv.Atoi(parts[3])
	if err != nil {
		return AnswerSelection{}, fmt.Errorf("%w: bad points in %q", ErrBadSelectionData, data)
	}

	return AnswerSelection{Ordinal: ordinal, Factor: factor, Points: points}, nil
}
