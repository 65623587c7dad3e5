package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"riskscreen/internal/cache"
	"riskscreen/internal/model"
	"riskscreen/internal/repository"
	"riskscreen/internal/scoring"
	"riskscreen/internal/survey"
)

// Messages sent to respondents
const (
	msgSendStart = "Send /start to begin the questionnaire"
	msgWelcome   = "Welcome! Please enter your first name"
	msgFirstName = "Please enter your first name"
	msgLastName  = "Please enter your last name"
	msgClass     = "Please enter your class"
	msgCategory  = "Choose your age category"
	msgPickOne   = "Please choose one of the offered options"
	msgRedo      = "Let's try the registration again. Please enter your first name"
	msgCancelled = "Input cancelled. Send /start whenever you want to begin again"
	msgDone      = "Thank you! The questionnaire is complete"
	msgFinished  = "Sorry, you have already completed the questionnaire"
)

// SurveyService owns the conversation state machine and the scoring flow.
// One instance is constructed with its dependencies and passed to every
// entry point; there is no shared global state.
type SurveyService struct {
	bank        *survey.Bank
	engine      *scoring.Engine
	respondents repository.RespondentRepo
	sessions    cache.SessionCache
	gateway     Gateway
	broadcaster Broadcaster

	locks sync.Map // respondentID -> *sync.Mutex
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	bank *survey.Bank,
	engine *scoring.Engine,
	respondents repository.RespondentRepo,
	sessions cache.SessionCache,
	gateway Gateway,
) *SurveyService {
	return &SurveyService{
		bank:        bank,
		engine:      engine,
		respondents: respondents,
		sessions:    sessions,
		gateway:     gateway,
	}
}

// SetBroadcaster sets the broadcaster for operator feed events
func (s *SurveyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// lock returns the serialization mutex for a respondent. Events for the
// same respondent are processed one at a time; different respondents
// proceed in parallel.
func (s *SurveyService) lock(respondentID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(respondentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleEvent processes one inbound transport event. A returned error means
// nothing was committed and the transport may redeliver safely; stale or
// invalid payloads are absorbed without error.
func (s *SurveyService) HandleEvent(ctx context.Context, ev *model.InboundEvent) error {
	if ev.RespondentID == "" {
		return fmt.Errorf("event without respondent id")
	}

	mu := s.lock(ev.RespondentID)
	mu.Lock()
	defer mu.Unlock()

	// Fast duplicate short-circuit. Best-effort: if the cache is down the
	// ordinal/factor guards below still keep processing idempotent.
	if ev.EventID != "" {
		first, err := s.sessions.MarkEvent(ctx, ev.EventID)
		if err != nil {
			log.Printf("event dedup unavailable: %v", err)
		} else if !first {
			return nil
		}
	}

	err := s.process(ctx, ev)
	if err != nil && ev.EventID != "" {
		// Unmark so the transport retry is not swallowed.
		if clearErr := s.sessions.ClearEvent(ctx, ev.EventID); clearErr != nil {
			log.Printf("clear event marker %s: %v", ev.EventID, clearErr)
		}
	}
	return err
}

func (s *SurveyService) process(ctx context.Context, ev *model.InboundEvent) error {
	profile, err := s.respondents.Get(ctx, ev.RespondentID)
	if err != nil {
		return fmt.Errorf("load respondent: %w", err)
	}

	if ev.Kind == model.EventText {
		switch strings.TrimSpace(ev.Text) {
		case model.CommandStart:
			return s.handleStart(ctx, profile, ev)
		case model.CommandCancel:
			return s.handleCancel(ctx, profile, ev)
		}
	}

	if profile == nil {
		return s.send(ctx, ev.RespondentID, msgSendStart, nil)
	}

	switch profile.Stage {
	case model.StageIdle:
		return s.send(ctx, ev.RespondentID, msgSendStart, nil)
	case model.StageCollectingFirstName:
		return s.handleFirstName(ctx, profile, ev)
	case model.StageCollectingLastName:
		return s.handleLastName(ctx, profile, ev)
	case model.StageCollectingClass:
		return s.handleClass(ctx, profile, ev)
	case model.StageConfirmingIdentity:
		return s.handleConfirmation(ctx, profile, ev)
	case model.StageChoosingAgeCategory:
		return s.handleCategory(ctx, profile, ev)
	case model.StageAnsweringQuestion:
		return s.handleAnswer(ctx, profile, ev)
	case model.StageCompleted:
		// Stale deliveries after completion are acknowledged and dropped
		return nil
	}

	log.Printf("respondent %s in unknown stage %q", profile.RespondentID, profile.Stage)
	return nil
}

// handleStart begins (or restarts) identity collection. A completed
// respondent stays completed.
func (s *SurveyService) handleStart(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	if profile != nil && profile.Completed() {
		return s.send(ctx, ev.RespondentID, msgFinished, nil)
	}

	if profile == nil {
		profile = model.NewRespondentProfile(ev.RespondentID, ev.Username)
	} else {
		profile.ResetSurvey()
	}
	profile.Stage = model.StageCollectingFirstName

	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}
	return s.send(ctx, ev.RespondentID, msgWelcome, nil)
}

// handleCancel aborts an in-flight conversation. Idle and completed
// respondents have nothing to cancel.
func (s *SurveyService) handleCancel(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	if profile == nil || profile.Stage == model.StageIdle || profile.Completed() {
		return nil
	}

	profile.ResetSurvey()
	profile.Stage = model.StageIdle

	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}

	if err := s.sessions.ClearLastPrompt(ctx, profile.RespondentID); err != nil {
		log.Printf("clear last prompt for %s: %v", profile.RespondentID, err)
	}
	return s.send(ctx, ev.RespondentID, msgCancelled, nil)
}

// freeText extracts a non-empty text payload, or "" if the event does not
// carry one (wrong kind, empty input).
func freeText(ev *model.InboundEvent) string {
	if ev.Kind != model.EventText {
		return ""
	}
	return strings.TrimSpace(ev.Text)
}

func (s *SurveyService) handleFirstName(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	text := freeText(ev)
	if text == "" {
		return s.send(ctx, ev.RespondentID, msgFirstName, nil)
	}

	profile.FirstName = text
	profile.Stage = model.StageCollectingLastName
	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}
	return s.send(ctx, ev.RespondentID, msgLastName, nil)
}

func (s *SurveyService) handleLastName(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	text := freeText(ev)
	if text == "" {
		return s.send(ctx, ev.RespondentID, msgLastName, nil)
	}

	profile.LastName = text
	profile.Stage = model.StageCollectingClass
	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}
	return s.send(ctx, ev.RespondentID, msgClass, nil)
}

func (s *SurveyService) handleClass(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	text := freeText(ev)
	if text == "" {
		return s.send(ctx, ev.RespondentID, msgClass, nil)
	}

	profile.ClassLabel = text
	profile.Stage = model.StageConfirmingIdentity
	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}
	return s.sendConfirmation(ctx, profile)
}

func (s *SurveyService) sendConfirmation(ctx context.Context, profile *model.RespondentProfile) error {
	text := fmt.Sprintf("Please confirm the entered data:\nFirst name: %s\nLast name: %s\nClass: %s",
		profile.FirstName, profile.LastName, profile.ClassLabel)
	options := []model.Option{
		{Label: "Yes", Data: model.ConfirmData(true)},
		{Label: "No", Data: model.ConfirmData(false)},
	}
	return s.send(ctx, profile.RespondentID, text, options)
}

func (s *SurveyService) handleConfirmation(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	if ev.Kind != model.EventSelection {
		return s.sendConfirmation(ctx, profile)
	}
	confirmed, err := model.ParseConfirmData(ev.Data)
	if err != nil {
		return s.sendConfirmation(ctx, profile)
	}

	if !confirmed {
		profile.ResetIdentity()
		profile.Stage = model.StageCollectingFirstName
		if err := s.respondents.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("save respondent: %w", err)
		}
		return s.send(ctx, ev.RespondentID, msgRedo, nil)
	}

	profile.Stage = model.StageChoosingAgeCategory
	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}
	return s.sendCategoryChoice(ctx, profile)
}

func (s *SurveyService) sendCategoryChoice(ctx context.Context, profile *model.RespondentProfile) error {
	options := make([]model.Option, 0, len(model.AgeCategories()))
	for _, c := range model.AgeCategories() {
		options = append(options, model.Option{Label: c.Label(), Data: model.CategoryData(c)})
	}
	return s.send(ctx, profile.RespondentID, msgCategory, options)
}

// handleCategory records the age category and opens the answering loop with
// question 1 of that category.
func (s *SurveyService) handleCategory(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	if ev.Kind != model.EventSelection {
		return s.send(ctx, ev.RespondentID, msgPickOne, nil)
	}
	category, err := model.ParseCategoryData(ev.Data)
	if err != nil {
		return s.send(ctx, ev.RespondentID, msgPickOne, nil)
	}

	factor, err := s.engine.FactorFor(category, 1)
	if err != nil {
		return fmt.Errorf("map first question: %w", err)
	}

	profile.AgeCategory = category
	profile.Session = model.SessionContext{QuestionOrdinal: 1, ActiveFactor: factor}
	profile.Stage = model.StageAnsweringQuestion
	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}

	return s.sendQuestion(ctx, profile)
}

// sendQuestion emits the current question with its answer keyboard
func (s *SurveyService) sendQuestion(ctx context.Context, profile *model.RespondentProfile) error {
	question, err := s.bank.At(profile.AgeCategory, profile.Session.QuestionOrdinal)
	if err != nil {
		return fmt.Errorf("fetch question: %w", err)
	}

	options := make([]model.Option, 0, len(question.Answers))
	for _, a := range question.Answers {
		options = append(options, model.Option{
			Label: a.Text,
			Data: model.AnswerData(model.AnswerSelection{
				Ordinal: profile.Session.QuestionOrdinal,
				Factor:  profile.Session.ActiveFactor,
				Points:  a.Points,
			}),
		})
	}
	return s.send(ctx, profile.RespondentID, question.Text, options)
}

// handleAnswer consumes one answer selection: accumulate points, retract
// the consumed prompt, then either advance to the next question or classify
// and complete. Stale selections (ordinal or factor not matching the live
// session) are acknowledged and dropped, which keeps duplicate delivery
// from double-counting.
func (s *SurveyService) handleAnswer(ctx context.Context, profile *model.RespondentProfile, ev *model.InboundEvent) error {
	if ev.Kind != model.EventSelection {
		return s.sendQuestion(ctx, profile)
	}
	sel, err := model.ParseAnswerData(ev.Data)
	if err != nil {
		return s.sendQuestion(ctx, profile)
	}

	session := profile.Session
	if sel.Ordinal != session.QuestionOrdinal || sel.Factor != session.ActiveFactor {
		log.Printf("respondent %s: stale answer for q%d/%s, session at q%d/%s",
			profile.RespondentID, sel.Ordinal, sel.Factor, session.QuestionOrdinal, session.ActiveFactor)
		return nil
	}

	profile.Totals.Add(sel.Factor, sel.Points)

	next := session.QuestionOrdinal + 1
	if next > s.bank.Count(profile.AgeCategory) {
		return s.complete(ctx, profile)
	}

	factor, err := s.engine.FactorFor(profile.AgeCategory, next)
	if err != nil {
		return fmt.Errorf("map question %d: %w", next, err)
	}
	profile.Session = model.SessionContext{QuestionOrdinal: next, ActiveFactor: factor}

	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}

	s.retractLastPrompt(ctx, profile.RespondentID)
	return s.sendQuestion(ctx, profile)
}

// complete classifies the accumulated totals and closes the conversation.
// Classification runs exactly once, here; bands are immutable afterwards.
func (s *SurveyService) complete(ctx context.Context, profile *model.RespondentProfile) error {
	bands, err := s.engine.Classify(profile.AgeCategory, profile.Totals)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	now := time.Now()
	profile.Bands = bands
	profile.TotalRisk = profile.Totals.Sum()
	profile.Session = model.SessionContext{}
	profile.Stage = model.StageCompleted
	profile.CompletedAt = &now

	if err := s.respondents.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("save respondent: %w", err)
	}

	s.retractLastPrompt(ctx, profile.RespondentID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOperators("screening_completed", map[string]interface{}{
			"respondentId": profile.RespondentID,
			"ageCategory":  profile.AgeCategory,
			"totals":       profile.Totals,
			"totalRisk":    profile.TotalRisk,
			"bands":        profile.Bands,
		})
	}

	return s.send(ctx, profile.RespondentID, msgDone, nil)
}

// retractLastPrompt removes the previously posted keyboard, best-effort
func (s *SurveyService) retractLastPrompt(ctx context.Context, respondentID string) {
	promptID, err := s.sessions.GetLastPrompt(ctx, respondentID)
	if err != nil || promptID == "" {
		return
	}
	if err := s.gateway.RetractPrompt(ctx, respondentID, promptID); err != nil {
		log.Printf("retract prompt %s for %s: %v", promptID, respondentID, err)
	}
}

// send delivers a prompt and remembers its id for later retraction
func (s *SurveyService) send(ctx context.Context, respondentID, text string, options []model.Option) error {
	promptID, err := s.gateway.SendPrompt(ctx, respondentID, text, options)
	if err != nil {
		return fmt.Errorf("send prompt: %w", err)
	}
	if promptID != "" {
		if err := s.sessions.SetLastPrompt(ctx, respondentID, promptID); err != nil {
			log.Printf("remember prompt %s for %s: %v", promptID, respondentID, err)
		}
	}
	return nil
}
