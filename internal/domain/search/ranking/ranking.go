// Package ranking maps sort modes to declarative scoring functions.
//
// Functions are interpreted by the search engine; nothing here computes a score.
package ranking

import (
	"github.com/kailas-cloud/itemsearch/internal/domain/search/field"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
)

// Modifier transforms a field value before it is used as a score factor.
type Modifier string

// Modifier constants.
const (
	None   Modifier = "none"
	Log1p  Modifier = "log1p"
	Ln1p   Modifier = "ln1p"
	Square Modifier = "square"
)

// BoostMode decides how ranking functions combine with query relevance.
type BoostMode string

// Boost mode constants.
const (
	// Multiply scales relevance by the function score.
	Multiply BoostMode = "multiply"
	// Replace discards relevance in favor of the function score.
	Replace BoostMode = "replace"
)

// PrimaryFactor weights the sort-mode function in search.
const PrimaryFactor = 1.2

// Function is a field-value scoring function.
type Function struct {
	Field    string
	Modifier Modifier
	Factor   float64
	// Missing is the value used when a document lacks Field; nil leaves it to the engine.
	Missing *float64
}

// Strategy is the full scoring configuration of a query.
type Strategy struct {
	Functions []Function
	BoostMode BoostMode
}

type primary struct {
	field     string
	modifier  Modifier
	boostMode BoostMode
}

var primaries = map[mode.Mode]primary{
	mode.Hot:      {field.WeightedVotes, None, Multiply},
	mode.Comments: {field.Comments, Square, Multiply},
	mode.Sats:     {field.Sats, None, Multiply},
	mode.Recent:   {field.CreatedAt, Square, Replace},
}

// tieBreakers bias otherwise equal results toward active and newer items.
var tieBreakers = []Function{
	{Field: field.Comments, Modifier: Ln1p, Factor: 1},
	{Field: field.CreatedAt, Modifier: Log1p, Factor: 1},
}

// ForSearch returns the strategy for a search sorted by m. Unknown modes rank as Hot.
func ForSearch(m mode.Mode) Strategy {
	p, ok := primaries[m]
	if !ok {
		p = primaries[mode.Hot]
	}
	fns := []Function{{Field: p.field, Modifier: p.modifier, Factor: PrimaryFactor}}
	if m != mode.Recent {
		fns = append(fns, tieBreakers...)
	}
	return Strategy{Functions: fns, BoostMode: p.boostMode}
}

// ForRelated returns the strategy for related-item queries.
func ForRelated() Strategy {
	missing := 0.0
	return Strategy{
		Functions: []Function{{
			Field:    field.WeightedVotes,
			Modifier: None,
			Factor:   1,
			Missing:  &missing,
		}},
		BoostMode: Multiply,
	}
}
