package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"riskscreen/internal/model"
)

// ErrBadConfig marks a scoring table that fails its coverage invariants.
// Table problems are fatal at startup, never a runtime fallback.
var ErrBadConfig = errors.New("invalid scoring configuration")

// TotalKey is the band-table key for the summed total score
const TotalKey = "total"

// FactorRange maps an inclusive question-ordinal range to a factor
type FactorRange struct {
	Factor model.Factor `json:"factor"`
	From   int          `json:"from"`
	To     int          `json:"to"`
}

// BandRange maps an inclusive score range to a band. A nil To means the
// range is open-ended upward.
type BandRange struct {
	Band model.Band `json:"band"`
	From int        `json:"from"`
	To   *int       `json:"to,omitempty"`
}

// CategoryTables holds the factor ranges and band tables of one age category
type CategoryTables struct {
	Factors []FactorRange          `json:"factors"`
	Bands   map[string][]BandRange `json:"bands"` // factor names plus "total"
}

// Tables is the external scoring configuration. The source material carries
// mutually inconsistent range tables across revisions, so none is hardcoded:
// the file is data and NewEngine validates it against the loaded bank.
type Tables struct {
	Categories map[model.AgeCategory]CategoryTables `json:"categories"`
}

// LoadTables parses the scoring configuration file. Structural validation
// happens in NewEngine, where the question bank is available.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scoring tables: %w", err)
	}

	var tables Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse scoring tables: %w", err)
	}
	if len(tables.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrBadConfig)
	}
	return &tables, nil
}
