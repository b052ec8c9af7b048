// Package query defines the engine-agnostic structured query plan.
//
// A Plan is a tree of boolean clauses wrapped in a function score, plus the
// result window and highlight directives. Engine adapters translate it into
// their own wire format.
package query

import (
	"time"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/ranking"
)

// Clause is a node of the query tree.
type Clause interface {
	clause()
}

// Bool combines clauses: Must and Should score, Filter and MustNot do not.
type Bool struct {
	Must    []Clause
	Should  []Clause
	Filter  []Clause
	MustNot []Clause
}

// Match is a full-text match on a single field.
type Match struct {
	Field string
	Value string
}

// Term is an exact keyword match.
type Term struct {
	Field string
	Value string
}

// Exists matches documents that carry Field.
type Exists struct {
	Field string
}

// NumberRange bounds a numeric field from below.
type NumberRange struct {
	Field string
	GTE   float64
}

// TimeRange bounds a date field. Zero bounds are open.
type TimeRange struct {
	Field string
	GTE   time.Time
	LTE   time.Time
}

// MatchType selects how MultiMatch scores across fields.
type MatchType string

// MultiMatch types.
const (
	BestFields MatchType = "best_fields"
	MostFields MatchType = "most_fields"
	Phrase     MatchType = "phrase"
)

// MultiMatch runs one query text over several (optionally boosted) fields.
type MultiMatch struct {
	Query              string
	Type               MatchType
	Fields             []string
	MinimumShouldMatch string
	Fuzziness          string
	PrefixLength       int
	Boost              float64
}

// MatchPhrasePrefix matches a phrase whose last term is a prefix.
type MatchPhrasePrefix struct {
	Field string
	Query string
}

// Wildcard matches a keyword field against a glob pattern.
type Wildcard struct {
	Field   string
	Pattern string
}

// DocRef points at an indexed document.
type DocRef struct {
	Index string
	ID    string
}

// MoreLikeThis finds documents similar to seed documents and texts.
type MoreLikeThis struct {
	Fields             []string
	LikeDocs           []DocRef
	LikeTexts          []string
	MinTermFreq        int
	MinDocFreq         int
	MaxDocFreq         int
	MinWordLength      int
	MaxQueryTerms      int
	MinimumShouldMatch string
}

// Neural is a vector-similarity clause whose embedding is inferred by the engine.
type Neural struct {
	Field     string
	QueryText string
	ModelID   string
	K         int
}

// KNN is a vector-similarity clause with a caller-supplied vector.
type KNN struct {
	Field  string
	Vector []float32
	K      int
}

// Hybrid combines lexical and semantic sub-queries with engine-side score normalization.
type Hybrid struct {
	Queries []Clause
}

// FunctionScore rescores Query with ranking functions.
type FunctionScore struct {
	Query    Clause
	Strategy ranking.Strategy
}

func (Bool) clause()              {}
func (Match) clause()             {}
func (Term) clause()              {}
func (Exists) clause()            {}
func (NumberRange) clause()       {}
func (TimeRange) clause()         {}
func (MultiMatch) clause()        {}
func (MatchPhrasePrefix) clause() {}
func (Wildcard) clause()          {}
func (MoreLikeThis) clause()      {}
func (Neural) clause()            {}
func (KNN) clause()               {}
func (Hybrid) clause()            {}
func (FunctionScore) clause()     {}

// FragmentOrder sorts highlight fragments.
type FragmentOrder string

// Fragment orders.
const (
	OrderNone  FragmentOrder = ""
	OrderScore FragmentOrder = "score"
)

// HighlightField requests fragments for one field. Fragments == 0 highlights the whole field.
type HighlightField struct {
	Field     string
	Fragments int
	Order     FragmentOrder
}

// Highlight requests match markers around hits.
type Highlight struct {
	PreTag  string
	PostTag string
	Fields  []HighlightField
}

// Plan is a complete engine request.
type Plan struct {
	Index          string
	From           int
	Size           int
	SourceExcludes []string
	Query          FunctionScore
	Highlight      *Highlight
}
