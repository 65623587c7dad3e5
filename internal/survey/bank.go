package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"riskscreen/internal/model"
)

// ErrQuestionNotFound is returned when an ordinal is outside [1, Count]
var ErrQuestionNotFound = errors.New("question not found")

// Category question files, keyed by age category
var bankFiles = map[model.AgeCategory]string{
	model.AgeYoung: "questions_14_15.json",
	model.AgeOld:   "questions_16_17.json",
}

type bankFile struct {
	Questions []model.Question `json:"questions"`
}

// Bank is the immutable per-age-category question collection, loaded once
// at startup and read-only afterwards.
type Bank struct {
	categories map[model.AgeCategory][]model.Question
}

// Load reads and validates the question files from dir
func Load(dir string) (*Bank, error) {
	bank := &Bank{categories: make(map[model.AgeCategory][]model.Question)}

	for category, name := range bankFiles {
		path := filepath.Join(dir, name)
		questions, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load question bank %s: %w", name, err)
		}
		bank.categories[category] = questions
	}

	return bank, nil
}

func loadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file bankFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, errors.New("no questions")
	}

	questions := file.Questions
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].Number < questions[j].Number
	})

	// Numbers must be exactly 1..N after sorting
	for i, q := range questions {
		if q.Number != i+1 {
			return nil, fmt.Errorf("question numbering broken at position %d (number %d)", i+1, q.Number)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %d has no text", q.Number)
		}
		if len(q.Answers) == 0 {
			return nil, fmt.Errorf("question %d has no answers", q.Number)
		}
	}

	return questions, nil
}

// Count returns the number of questions for a category, 0 if unknown
func (b *Bank) Count(category model.AgeCategory) int {
	return len(b.categories[category])
}

// At returns the question with the given 1-based ordinal. Ordinals outside
// [1, Count] fail with ErrQuestionNotFound; callers treat Count+1 as the
// completion signal and never ask for it.
func (b *Bank) At(category model.AgeCategory, ordinal int) (model.Question, error) {
	questions, ok := b.categories[category]
	if !ok {
		return model.Question{}, fmt.Errorf("%w: unknown category %q", ErrQuestionNotFound, category)
	}
	if ordinal < 1 || ordinal > len(questions) {
		return model.Question{}, fmt.Errorf("%w: ordinal %d out of range [1, %d]", ErrQuestionNotFound, ordinal, len(questions))
	}
	return questions[ordinal-1], nil
}

// Categories lists the loaded categories in a fixed order
func (b *Bank) Categories() []model.AgeCategory {
	var out []model.AgeCategory
	for _, c := range model.AgeCategories() {
		if _, ok := b.categories[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
