package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmDataRoundTrip(t *testing.T) {
	yes, err := ParseConfirmData(ConfirmData(true))
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := ParseConfirmData(ConfirmData(false))
	require.NoError(t, err)
	assert.False(t, no)
}

func TestParseConfirmDataRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "confirm", "confirm:maybe", "cat:young", "yes"} {
		_, err := ParseConfirmData(data)
		assert.ErrorIs(t, err, ErrBadSelectionData, "data %q", data)
	}
}

func TestCategoryDataRoundTrip(t *testing.T) {
	for _, c := range AgeCategories() {
		parsed, err := ParseCategoryData(CategoryData(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseCategoryDataRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "cat:", "cat:middle", "young", "confirm:yes"} {
		_, err := ParseCategoryData(data)
		assert.ErrorIs(t, err, ErrBadSelectionData, "data %q", data)
	}
}

func TestAnswerDataRoundTrip(t *testing.T) {
	sel := AnswerSelection{Ordinal: 7, Factor: FactorPsychological, Points: 15}
	assert.Equal(t, "ans:7:psychological:15", AnswerData(sel))

	parsed, err := ParseAnswerData(AnswerData(sel))
	require.NoError(t, err)
	assert.Equal(t, sel, parsed)
}

func TestParseAnswerDataRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		"",
		"ans:1:family",
		"ans:1:family:5:extra",
		"ans:x:family:5",
		"ans:1:karma:5",
		"ans:1:family:x",
		"cat:1:family:5",
	} {
		_, err := ParseAnswerData(data)
		assert.ErrorIs(t, err, ErrBadSelectionData, "data %q", data)
	}
}

func TestFactorTotals(t *testing.T) {
	var totals FactorTotals
	totals.Add(FactorFamily, 10)
	totals.Add(FactorFamily, 5)
	totals.Add(FactorSchool, 3)

	assert.Equal(t, 15, totals.Get(FactorFamily))
	assert.Equal(t, 0, totals.Get(FactorEnvironment))
	assert.Equal(t, 3, totals.Get(FactorSchool))
	assert.Equal(t, 18, totals.Sum())
}

func TestResetSurveyZeroesProgress(t *testing.T) {
	p := NewRespondentProfile("r1", "user")
	p.FirstName = "Anna"
	p.LastName = "Ivanova"
	p.ClassLabel = "8A"
	p.AgeCategory = AgeYoung
	p.Session = SessionContext{QuestionOrdinal: 5, ActiveFactor: FactorFamily}
	p.Totals.Add(FactorFamily, 42)
	p.TotalRisk = 42
	p.Bands = &FactorBands{Total: BandHigh}

	p.ResetSurvey()

	assert.Empty(t, p.FirstName)
	assert.Empty(t, p.LastName)
	assert.Empty(t, p.ClassLabel)
	assert.Empty(t, p.AgeCategory)
	assert.Zero(t, p.Session)
	assert.Zero(t, p.Totals)
	assert.Zero(t, p.TotalRisk)
	assert.Nil(t, p.Bands)
	assert.Nil(t, p.CompletedAt)
}
