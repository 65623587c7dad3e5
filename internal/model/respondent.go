package model

import "time"

// Stage is the respondent's position in the screening conversation
type Stage string

const (
	StageIdle                Stage = "idle"
	StageCollectingFirstName Stage = "collecting_first_name"
	StageCollectingLastName  Stage = "collecting_last_name"
	StageCollectingClass     Stage = "collecting_class"
	StageConfirmingIdentity  Stage = "confirming_identity"
	StageChoosingAgeCategory Stage = "choosing_age_category"
	StageAnsweringQuestion   Stage = "answering_question"
	StageCompleted           Stage = "completed"
)

// AgeCategory selects which question set and scoring tables apply
type AgeCategory string

const (
	AgeYoung AgeCategory = "young" // 14-15 years
	AgeOld   AgeCategory = "old"   // 16-17 years
)

// Valid reports whether the category is one of the known values
func (c AgeCategory) Valid() bool {
	return c == AgeYoung || c == AgeOld
}

// Label is the human-facing age range shown on keyboards
func (c AgeCategory) Label() string {
	switch c {
	case AgeYoung:
		return "14-15 years"
	case AgeOld:
		return "16-17 years"
	}
	return string(c)
}

// AgeCategories lists all categories in a fixed order
func AgeCategories() []AgeCategory {
	return []AgeCategory{AgeYoung, AgeOld}
}

// Factor is one of the four risk dimensions points accumulate into
type Factor string

const (
	FactorFamily        Factor = "family"
	FactorPsychological Factor = "psychological"
	FactorEnvironment   Factor = "environment"
	FactorSchool        Factor = "school"
)

// Valid reports whether the factor is one of the known values
func (f Factor) Valid() bool {
	switch f {
	case FactorFamily, FactorPsychological, FactorEnvironment, FactorSchool:
		return true
	}
	return false
}

// Factors lists all factors in a fixed order
func Factors() []Factor {
	return []Factor{FactorFamily, FactorPsychological, FactorEnvironment, FactorSchool}
}

// Band is the qualitative classification of a final score
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Valid reports whether the band is one of the known values
func (b Band) Valid() bool {
	return b == BandLow || b == BandMedium || b == BandHigh
}

// FactorTotals holds the running point totals per factor
type FactorTotals struct {
	Family        int `json:"family" bson:"family"`
	Psychological int `json:"psychological" bson:"psychological"`
	Environment   int `json:"environment" bson:"environment"`
	School        int `json:"school" bson:"school"`
}

// Get returns the total for a factor
func (t FactorTotals) Get(f Factor) int {
	switch f {
	case FactorFamily:
		return t.Family
	case FactorPsychological:
		return t.Psychological
	case FactorEnvironment:
		return t.Environment
	case FactorSchool:
		return t.School
	}
	return 0
}

// Add adds points to a factor's total
func (t *FactorTotals) Add(f Factor, points int) {
	switch f {
	case FactorFamily:
		t.Family += points
	case FactorPsychological:
		t.Psychological += points
	case FactorEnvironment:
		t.Environment += points
	case FactorSchool:
		t.School += points
	}
}

// Sum is the total risk score across all factors
func (t FactorTotals) Sum() int {
	return t.Family + t.Psychological + t.Environment + t.School
}

// FactorBands holds the classification result, set once at completion
type FactorBands struct {
	Family        Band `json:"family" bson:"family"`
	Psychological Band `json:"psychological" bson:"psychological"`
	Environment   Band `json:"environment" bson:"environment"`
	School        Band `json:"school" bson:"school"`
	Total         Band `json:"total" bson:"total"`
}

// Get returns the band for a factor
func (b FactorBands) Get(f Factor) Band {
	switch f {
	case FactorFamily:
		return b.Family
	case FactorPsychological:
		return b.Psychological
	case FactorEnvironment:
		return b.Environment
	case FactorSchool:
		return b.School
	}
	return ""
}

// Set assigns the band for a factor
func (b *FactorBands) Set(f Factor, band Band) {
	switch f {
	case FactorFamily:
		b.Family = band
	case FactorPsychological:
		b.Psychological = band
	case FactorEnvironment:
		b.Environment = band
	case FactorSchool:
		b.School = band
	}
}

// SessionContext is the transient per-respondent survey progress.
// It is stored inside the respondent document so one upsert commits it
// together with the stage transition and any field writes.
type SessionContext struct {
	QuestionOrdinal int    `json:"questionOrdinal" bson:"questionOrdinal"`
	ActiveFactor    Factor `json:"activeFactor,omitempty" bson:"activeFactor,omitempty"`
}

// RespondentProfile is the durable record per respondent
type RespondentProfile struct {
	RespondentID string `json:"respondentId" bson:"respondentId"`
	Username     string `json:"username,omitempty" bson:"username,omitempty"`

	FirstName   string      `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty" bson:"lastName,omitempty"`
	ClassLabel  string      `json:"classLabel,omitempty" bson:"classLabel,omitempty"`
	AgeCategory AgeCategory `json:"ageCategory,omitempty" bson:"ageCategory,omitempty"`

	Stage   Stage          `json:"stage" bson:"stage"`
	Session SessionContext `json:"session" bson:"session"`

	Totals    FactorTotals `json:"totals" bson:"totals"`
	TotalRisk int          `json:"totalRisk" bson:"totalRisk"`
	Bands     *FactorBands `json:"bands,omitempty" bson:"bands,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// NewRespondentProfile creates an idle profile for a respondent
func NewRespondentProfile(respondentID, username string) *RespondentProfile {
	now := time.Now()
	return &RespondentProfile{
		RespondentID: respondentID,
		Username:     username,
		Stage:        StageIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Completed reports whether the screening has finished
func (p *RespondentProfile) Completed() bool {
	return p.Stage == StageCompleted
}

// ResetIdentity discards collected identity fields
func (p *RespondentProfile) ResetIdentity() {
	p.FirstName = ""
	p.LastName = ""
	p.ClassLabel = ""
}

// ResetSurvey discards survey progress along with identity fields.
// Accumulated totals are zeroed so a restarted screening counts from scratch.
func (p *RespondentProfile) ResetSurvey() {
	p.ResetIdentity()
	p.AgeCategory = ""
	p.Session = SessionContext{}
	p.Totals = FactorTotals{}
	p.TotalRisk = 0
	p.Bands = nil
	p.CompletedAt = nil
}

// BandSummary aggregates completed screenings per band for the dashboard
type BandSummary struct {
	Completed  int                     `json:"completed"`
	InProgress int                     `json:"inProgress"`
	ByFactor   map[Factor]map[Band]int `json:"byFactor"`
	ByTotal    map[Band]int            `json:"byTotal"`
}
