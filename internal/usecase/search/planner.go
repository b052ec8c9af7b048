package search

import (
	"github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/cursor"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/field"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/ranking"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
)

// Highlight markers wrap matched terms in title and text fragments.
const (
	HighlightTag       = "***"
	textFragments      = 5
	titleBoost         = 100
	termClauseBoost    = 1000
	fuzzyMinimumMatch  = "60%"
	strictMinimumMatch = "100%"
)

// More-like-this thresholds for related items.
const (
	mltMinTermFreq   = 1
	mltMinDocFreq    = 1
	mltMaxDocFreq    = 5
	mltMinWordLength = 2
	mltMaxQueryTerms = 25
)

// Minimum wvotes of related candidates, relaxed when the caller tunes min_match.
const (
	relatedMinVotes        = 0.2
	relatedMinVotesTunable = 0
)

// Planner turns validated requests into engine-agnostic query plans.
// It performs no I/O.
type Planner struct {
	cfg Config
}

// NewPlanner creates a planner for cfg.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg.withDefaults()}
}

// PageSize returns the effective page size for a requested size (0 = default).
func (p *Planner) PageSize(requested int) int { return p.cfg.pageSize(requested) }

// PlanSearch builds the plan for one page of a free-text search.
// seed carries the free text (and optional vectors) for semantic clauses;
// nil disables them. The caller handles empty queries before planning.
func (p *Planner) PlanSearch(req *request.Search, cur cursor.Cursor, pageSize int, seed *Seed) query.Plan {
	terms := ParseTerms(req.Query())

	var clauses []query.Clause
	if terms.Text != "" {
		clauses = termClauses(terms.Text, req.Sort())
		if p.hybridApplies(req.Sort()) {
			clauses = composeHybrid(clauses, p.vectorClauses(seed, cur.Offset+pageSize))
		}
	}

	root := query.Bool{Filter: p.searchFilters(req, terms, cur)}
	if req.Sort() == mode.Recent {
		root.Must = clauses
	} else {
		root.Should = clauses
	}

	return query.Plan{
		Index:          p.cfg.Index,
		From:           cur.Offset,
		Size:           pageSize,
		SourceExcludes: field.HeavyFields,
		Query: query.FunctionScore{
			Query:    root,
			Strategy: ranking.ForSearch(req.Sort()),
		},
		Highlight: &query.Highlight{
			PreTag:  HighlightTag,
			PostTag: HighlightTag,
			Fields: []query.HighlightField{
				{Field: field.Title, Fragments: 0},
				{Field: field.Text, Fragments: textFragments, Order: query.OrderScore},
			},
		},
	}
}

// SearchSeed returns the semantic seed of a search: the free text with
// reserved tokens removed, or nil when nothing is left to embed.
func SearchSeed(req *request.Search) *Seed {
	text := ParseTerms(req.Query()).Text
	if text == "" {
		return nil
	}
	return &Seed{Title: text, Body: text}
}

func termClauses(text string, m mode.Mode) []query.Clause {
	fields := []string{field.Boosted(field.Title, titleBoost), field.Text}

	clauses := []query.Clause{
		query.MultiMatch{
			Query:              text,
			Type:               query.BestFields,
			Fields:             fields,
			MinimumShouldMatch: strictMinimumMatch,
			Boost:              termClauseBoost,
		},
	}
	if m == mode.Recent {
		return append(clauses, query.MultiMatch{
			Query:  text,
			Type:   query.Phrase,
			Fields: fields,
			Boost:  termClauseBoost,
		})
	}
	return append(clauses, query.MultiMatch{
		Query:              text,
		Type:               query.MostFields,
		Fields:             fields,
		Fuzziness:          "AUTO",
		PrefixLength:       3,
		MinimumShouldMatch: fuzzyMinimumMatch,
	})
}

func (p *Planner) searchFilters(req *request.Search, terms Terms, cur cursor.Cursor) []query.Clause {
	var filters []query.Clause

	switch req.Kind() {
	case kind.Posts:
		filters = append(filters, query.Bool{MustNot: []query.Clause{query.Exists{Field: field.ParentID}}})
	case kind.Comments:
		filters = append(filters, query.Bool{Must: []query.Clause{query.Exists{Field: field.ParentID}}})
	}
	if terms.URL != "" {
		filters = append(filters, query.MatchPhrasePrefix{Field: field.URL, Query: terms.URL})
	}
	if terms.Nym != "" {
		filters = append(filters, query.Wildcard{Field: field.UserName, Pattern: "*" + terms.Nym + "*"})
	}
	if req.Sub() != "" {
		filters = append(filters, query.Match{Field: field.SubName, Value: req.Sub()})
	}

	bounds := req.Window().Resolve(cur.Time)
	return append(filters,
		query.Bool{Should: statusClauses(req.Viewer())},
		query.TimeRange{Field: field.CreatedAt, GTE: bounds.From, LTE: bounds.To},
		query.NumberRange{Field: field.WeightedVotes, GTE: 0},
	)
}

// statusClauses matches publicly visible items, plus the viewer's own items.
// Full-text match works whether the index maps these fields as keyword or as
// analyzed text; an exact term on analyzed text would match nothing.
func statusClauses(v viewer.Viewer) []query.Clause {
	clauses := []query.Clause{
		query.Match{Field: field.Status, Value: string(item.StatusActive)},
		query.Match{Field: field.Status, Value: string(item.StatusNoSats)},
	}
	if v.Authenticated() {
		clauses = append(clauses, query.Match{Field: field.UserID, Value: v.ID()})
	}
	return clauses
}

// PlanRelated builds the plan for one page of items related to the anchor.
// seed carries the anchor title and body for semantic clauses; nil or an
// unusable seed falls back to more-like-this. The caller handles requests
// without an anchor before planning.
func (p *Planner) PlanRelated(req *request.Related, cur cursor.Cursor, pageSize int, seed *Seed) query.Plan {
	similar := p.vectorClauses(seed, cur.Offset+pageSize)
	if len(similar) == 0 {
		similar = []query.Clause{p.moreLikeThis(req)}
	}

	exclude := []query.Clause{query.Exists{Field: field.ParentID}}
	if req.ID() != "" {
		exclude = append(exclude, query.Term{Field: field.ID, Value: req.ID()})
	}

	minVotes := relatedMinVotes
	if req.HasMinMatch() {
		minVotes = relatedMinVotesTunable
	}

	return query.Plan{
		Index:          p.cfg.Index,
		From:           cur.Offset,
		Size:           pageSize,
		SourceExcludes: field.HeavyFields,
		Query: query.FunctionScore{
			Query: query.Bool{
				Should: similar,
				Filter: []query.Clause{
					query.Bool{
						Should:  statusClauses(viewer.Anonymous()),
						MustNot: exclude,
					},
					query.NumberRange{Field: field.WeightedVotes, GTE: minVotes},
				},
			},
			Strategy: ranking.ForRelated(),
		},
	}
}

func (p *Planner) moreLikeThis(req *request.Related) query.MoreLikeThis {
	mlt := query.MoreLikeThis{
		Fields:             []string{field.Title, field.Text},
		MinTermFreq:        mltMinTermFreq,
		MinDocFreq:         mltMinDocFreq,
		MaxDocFreq:         mltMaxDocFreq,
		MinWordLength:      mltMinWordLength,
		MaxQueryTerms:      mltMaxQueryTerms,
		MinimumShouldMatch: req.EffectiveMinMatch(),
	}
	if req.ID() != "" {
		mlt.LikeDocs = []query.DocRef{{Index: p.cfg.Index, ID: req.ID()}}
	}
	if req.Title() != "" {
		mlt.LikeTexts = []string{req.Title()}
	}
	return mlt
}
