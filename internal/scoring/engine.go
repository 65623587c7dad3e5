package scoring

import (
	"fmt"

	"riskscreen/internal/model"
	"riskscreen/internal/survey"
)

// Engine maps question ordinals to factors and classifies final totals.
// Construction validates the tables against the question bank; after that
// every lookup inside the validated domain succeeds.
type Engine struct {
	bank   *survey.Bank
	tables *Tables
}

// NewEngine validates the scoring tables against the bank and returns the
// engine. Any gap, overlap, or coverage hole is a startup failure.
func NewEngine(bank *survey.Bank, tables *Tables) (*Engine, error) {
	for _, category := range bank.Categories() {
		ct, ok := tables.Categories[category]
		if !ok {
			return nil, fmt.Errorf("%w: no tables for category %q", ErrBadConfig, category)
		}
		if err := validateFactorRanges(category, ct.Factors, bank.Count(category)); err != nil {
			return nil, err
		}
		if err := validateBandTables(category, ct.Bands); err != nil {
			return nil, err
		}
	}
	return &Engine{bank: bank, tables: tables}, nil
}

// validateFactorRanges checks that the ranges tile [1, count] exactly:
// ordered, contiguous, no gaps, no overlaps.
func validateFactorRanges(category model.AgeCategory, ranges []FactorRange, count int) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: category %q has no factor ranges", ErrBadConfig, category)
	}

	next := 1
	for _, r := range ranges {
		if !r.Factor.Valid() {
			return fmt.Errorf("%w: category %q: unknown factor %q", ErrBadConfig, category, r.Factor)
		}
		if r.From != next {
			return fmt.Errorf("%w: category %q: factor range %q starts at %d, want %d",
				ErrBadConfig, category, r.Factor, r.From, next)
		}
		if r.To < r.From {
			return fmt.Errorf("%w: category %q: factor range %q is empty (%d-%d)",
				ErrBadConfig, category, r.Factor, r.From, r.To)
		}
		next = r.To + 1
	}
	if next != count+1 {
		return fmt.Errorf("%w: category %q: factor ranges cover [1, %d], bank has %d questions",
			ErrBadConfig, category, next-1, count)
	}
	return nil
}

// validateBandTables checks that every factor and the total have a band
// table starting at 0, contiguous, with the last range open-ended upward.
func validateBandTables(category model.AgeCategory, bands map[string][]BandRange) error {
	keys := make([]string, 0, len(model.Factors())+1)
	for _, f := range model.Factors() {
		keys = append(keys, string(f))
	}
	keys = append(keys, TotalKey)

	for _, key := range keys {
		ranges, ok := bands[key]
		if !ok || len(ranges) == 0 {
			return fmt.Errorf("%w: category %q: no band table for %q", ErrBadConfig, category, key)
		}

		next := 0
		for i, r := range ranges {
			if !r.Band.Valid() {
				return fmt.Errorf("%w: category %q: %q: unknown band %q", ErrBadConfig, category, key, r.Band)
			}
			if r.From != next {
				return fmt.Errorf("%w: category %q: %q: band %q starts at %d, want %d",
					ErrBadConfig, category, key, r.Band, r.From, next)
			}
			last := i == len(ranges)-1
			if last {
				if r.To != nil {
					return fmt.Errorf("%w: category %q: %q: last band %q must be open-ended",
						ErrBadConfig, category, key, r.Band)
				}
				continue
			}
			if r.To == nil {
				return fmt.Errorf("%w: category %q: %q: band %q is open-ended but not last",
					ErrBadConfig, category, key, r.Band)
			}
			if *r.To < r.From {
				return fmt.Errorf("%w: category %q: %q: band %q is empty (%d-%d)",
					ErrBadConfig, category, key, r.Band, r.From, *r.To)
			}
			next = *r.To + 1
		}
	}
	return nil
}

// FactorFor maps a question ordinal to its factor. A miss can only mean the
// caller went outside the validated domain.
func (e *Engine) FactorFor(category model.AgeCategory, ordinal int) (model.Factor, error) {
	ct, ok := e.tables.Categories[category]
	if !ok {
		return "", fmt.Errorf("%w: no tables for category %q", ErrBadConfig, category)
	}
	for _, r := range ct.Factors {
		if ordinal >= r.From && ordinal <= r.To {
			return r.Factor, nil
		}
	}
	return "", fmt.Errorf("%w: category %q: no factor range matches ordinal %d", ErrBadConfig, category, ordinal)
}

// Classify maps each factor total and the summed total to a band.
// Ranges are evaluated in ascending order; the first match wins.
func (e *Engine) Classify(category model.AgeCategory, totals model.FactorTotals) (*model.FactorBands, error) {
	ct, ok := e.tables.Categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: no tables for category %q", ErrBadConfig, category)
	}

	bands := &model.FactorBands{}
	for _, f := range model.Factors() {
		band, err := bandFor(ct.Bands[string(f)], totals.Get(f))
		if err != nil {
			return nil, fmt.Errorf("category %q: %q: %w", category, f, err)
		}
		bands.Set(f, band)
	}

	total, err := bandFor(ct.Bands[TotalKey], totals.Sum())
	if err != nil {
		return nil, fmt.Errorf("category %q: total: %w", category, err)
	}
	bands.Total = total

	return bands, nil
}

func bandFor(ranges []BandRange, value int) (model.Band, error) {
	for _, r := range ranges {
		if value >= r.From && (r.To == nil || value <= *r.To) {
			return r.Band, nil
		}
	}
	return "", fmt.Errorf("%w: no band range matches value %d", ErrBadConfig, value)
}
