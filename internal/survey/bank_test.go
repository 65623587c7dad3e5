package survey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/model"
)

const youngFixture = `{
  "questions": [
    {"number": 2, "text": "Second question", "answers": [{"text": "No", "points": 0}, {"text": "Yes", "points": 5}]},
    {"number": 1, "text": "First question", "answers": [{"text": "No", "points": 0}, {"text": "Yes", "points": 10}]},
    {"number": 3, "text": "Third question", "answers": [{"text": "Never", "points": 0}]}
  ]
}`

const oldFixture = `{
  "questions": [
    {"number": 1, "text": "Only question", "answers": [{"text": "No", "points": 0}]}
  ]
}`

func writeBankDir(t *testing.T, young, old string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_14_15.json"), []byte(young), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_16_17.json"), []byte(old), 0o644))
	return dir
}

func TestLoadSortsAndCounts(t *testing.T) {
	bank, err := Load(writeBankDir(t, youngFixture, oldFixture))
	require.NoError(t, err)

	assert.Equal(t, 3, bank.Count(model.AgeYoung))
	assert.Equal(t, 1, bank.Count(model.AgeOld))
	assert.Equal(t, 0, bank.Count(model.AgeCategory("middle")))

	// Out-of-order numbers in the file come back sorted
	q, err := bank.At(model.AgeYoung, 1)
	require.NoError(t, err)
	assert.Equal(t, "First question", q.Text)

	q, err = bank.At(model.AgeYoung, 2)
	require.NoError(t, err)
	assert.Equal(t, "Second question", q.Text)
	assert.Equal(t, 5, q.Answers[1].Points)
}

func TestAtOrdinalBounds(t *testing.T) {
	bank, err := Load(writeBankDir(t, youngFixture, oldFixture))
	require.NoError(t, err)

	_, err = bank.At(model.AgeYoung, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = bank.At(model.AgeYoung, 4)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = bank.At(model.AgeCategory("middle"), 1)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestLoadRejectsBrokenBanks(t *testing.T) {
	cases := map[string]string{
		"gap in numbering": `{"questions": [
			{"number": 1, "text": "q", "answers": [{"text": "a", "points": 0}]},
			{"number": 3, "text": "q", "answers": [{"text": "a", "points": 0}]}
		]}`,
		"duplicate number": `{"questions": [
			{"number": 1, "text": "q", "answers": [{"text": "a", "points": 0}]},
			{"number": 1, "text": "q", "answers": [{"text": "a", "points": 0}]}
		]}`,
		"starts at zero": `{"questions": [
			{"number": 0, "text": "q", "answers": [{"text": "a", "points": 0}]}
		]}`,
		"empty text": `{"questions": [
			{"number": 1, "text": "", "answers": [{"text": "a", "points": 0}]}
		]}`,
		"no answers": `{"questions": [
			{"number": 1, "text": "q", "answers": []}
		]}`,
		"no questions": `{"questions": []}`,
		"not json":     `{{`,
	}

	for name, fixture := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeBankDir(t, fixture, oldFixture))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_14_15.json"), []byte(youngFixture), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestCategoriesFixedOrder(t *testing.T) {
	bank, err := Load(writeBankDir(t, youngFixture, oldFixture))
	require.NoError(t, err)
	assert.Equal(t, []model.AgeCategory{model.AgeYoung, model.AgeOld}, bank.Categories())
}
