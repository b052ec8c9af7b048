package search

import (
	"github.com/kailas-cloud/itemsearch/internal/domain/search/field"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
)

// Seed is the text (and, for client-side embeddings, the vectors) that
// vector-similarity clauses are built from.
type Seed struct {
	Title       string
	Body        string
	TitleVector []float32
	BodyVector  []float32
}

func (s *Seed) hasVectors() bool {
	return len(s.TitleVector) > 0 && len(s.BodyVector) > 0
}

// hybridApplies reports whether a search sorted by m may use semantic scoring.
// Recent ordering ignores relevance, so it stays lexical.
func (p *Planner) hybridApplies(m mode.Mode) bool {
	return p.cfg.SemanticEnabled() && m != mode.Recent
}

// vectorClauses returns one similarity clause per embedded field, each
// asking for k neighbors. It returns nil when the seed cannot be used:
// client-side embeddings were requested but no vectors were computed.
func (p *Planner) vectorClauses(seed *Seed, k int) []query.Clause {
	if seed == nil || !p.cfg.SemanticEnabled() {
		return nil
	}
	if seed.hasVectors() {
		return []query.Clause{
			query.KNN{Field: field.TitleEmbedding, Vector: seed.TitleVector, K: k},
			query.KNN{Field: field.TextEmbedding, Vector: seed.BodyVector, K: k},
		}
	}
	if p.cfg.ClientEmbeddings {
		return nil
	}
	return []query.Clause{
		query.Neural{Field: field.TitleEmbedding, QueryText: seed.Title, ModelID: p.cfg.ModelID, K: k},
		query.Neural{Field: field.TextEmbedding, QueryText: seed.Body, ModelID: p.cfg.ModelID, K: k},
	}
}

// composeHybrid wraps lexical clauses together with vector clauses in a
// single hybrid clause. Without vector clauses the lexical clauses are
// returned unchanged.
func composeHybrid(lexical, vectors []query.Clause) []query.Clause {
	if len(vectors) == 0 {
		return lexical
	}
	return []query.Clause{
		query.Hybrid{Queries: []query.Clause{
			query.Bool{Should: vectors},
			query.Bool{Should: lexical},
		}},
	}
}
