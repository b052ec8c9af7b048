package opensearch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/ranking"
)

// obj is a JSON object of the query DSL.
type obj = map[string]any

// MarshalPlan renders a plan as an OpenSearch _search request body.
func MarshalPlan(plan *query.Plan) ([]byte, error) {
	body, err := EncodePlan(plan)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}
	return data, nil
}

// EncodePlan converts a plan into the OpenSearch query DSL.
func EncodePlan(plan *query.Plan) (map[string]any, error) {
	q, err := encodeFunctionScore(plan.Query)
	if err != nil {
		return nil, err
	}
	body := obj{
		"from":  plan.From,
		"size":  plan.Size,
		"query": q,
	}
	if len(plan.SourceExcludes) > 0 {
		body["_source"] = obj{"excludes": plan.SourceExcludes}
	}
	if plan.Highlight != nil {
		body["highlight"] = encodeHighlight(plan.Highlight)
	}
	return body, nil
}

func encodeFunctionScore(fs query.FunctionScore) (obj, error) {
	inner, err := encodeClause(fs.Query)
	if err != nil {
		return nil, err
	}
	functions := make([]obj, 0, len(fs.Strategy.Functions))
	for _, f := range fs.Strategy.Functions {
		functions = append(functions, obj{"field_value_factor": encodeFunction(f)})
	}
	return obj{"function_score": obj{
		"query":      inner,
		"functions":  functions,
		"boost_mode": string(fs.Strategy.BoostMode),
	}}, nil
}

func encodeFunction(f ranking.Function) obj {
	fvf := obj{
		"field":    f.Field,
		"modifier": string(f.Modifier),
		"factor":   f.Factor,
	}
	if f.Missing != nil {
		fvf["missing"] = *f.Missing
	}
	return fvf
}

//nolint:gocyclo,cyclop // one case per clause type
func encodeClause(c query.Clause) (obj, error) {
	switch c := c.(type) {
	case nil:
		return obj{"match_all": obj{}}, nil
	case query.Bool:
		return encodeBool(c)
	case query.Match:
		return obj{"match": obj{c.Field: c.Value}}, nil
	case query.Term:
		return obj{"term": obj{c.Field: c.Value}}, nil
	case query.Exists:
		return obj{"exists": obj{"field": c.Field}}, nil
	case query.NumberRange:
		return obj{"range": obj{c.Field: obj{"gte": c.GTE}}}, nil
	case query.TimeRange:
		bounds := obj{}
		if !c.GTE.IsZero() {
			bounds["gte"] = c.GTE.UTC().Format(time.RFC3339Nano)
		}
		if !c.LTE.IsZero() {
			bounds["lte"] = c.LTE.UTC().Format(time.RFC3339Nano)
		}
		return obj{"range": obj{c.Field: bounds}}, nil
	case query.MultiMatch:
		return obj{"multi_match": encodeMultiMatch(c)}, nil
	case query.MatchPhrasePrefix:
		return obj{"match_phrase_prefix": obj{c.Field: c.Query}}, nil
	case query.Wildcard:
		return obj{"wildcard": obj{c.Field: c.Pattern}}, nil
	case query.MoreLikeThis:
		return obj{"more_like_this": encodeMoreLikeThis(c)}, nil
	case query.Neural:
		return obj{"neural": obj{c.Field: obj{
			"query_text": c.QueryText,
			"model_id":   c.ModelID,
			"k":          c.K,
		}}}, nil
	case query.KNN:
		return obj{"knn": obj{c.Field: obj{
			"vector": c.Vector,
			"k":      c.K,
		}}}, nil
	case query.Hybrid:
		queries, err := encodeClauses(c.Queries)
		if err != nil {
			return nil, err
		}
		return obj{"hybrid": obj{"queries": queries}}, nil
	case query.FunctionScore:
		return encodeFunctionScore(c)
	default:
		return nil, fmt.Errorf("unsupported clause %T", c)
	}
}

func encodeClauses(cs []query.Clause) ([]obj, error) {
	out := make([]obj, 0, len(cs))
	for _, c := range cs {
		enc, err := encodeClause(c)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}

func encodeBool(b query.Bool) (obj, error) {
	body := obj{}
	groups := []struct {
		key     string
		clauses []query.Clause
	}{
		{"must", b.Must},
		{"should", b.Should},
		{"filter", b.Filter},
		{"must_not", b.MustNot},
	}
	for _, g := range groups {
		if len(g.clauses) == 0 {
			continue
		}
		enc, err := encodeClauses(g.clauses)
		if err != nil {
			return nil, err
		}
		body[g.key] = enc
	}
	return obj{"bool": body}, nil
}

func encodeMultiMatch(m query.MultiMatch) obj {
	body := obj{
		"query":  m.Query,
		"type":   string(m.Type),
		"fields": m.Fields,
	}
	if m.MinimumShouldMatch != "" {
		body["minimum_should_match"] = m.MinimumShouldMatch
	}
	if m.Fuzziness != "" {
		body["fuzziness"] = m.Fuzziness
	}
	if m.PrefixLength > 0 {
		body["prefix_length"] = m.PrefixLength
	}
	if m.Boost != 0 {
		body["boost"] = m.Boost
	}
	return body
}

func encodeMoreLikeThis(m query.MoreLikeThis) obj {
	like := make([]any, 0, len(m.LikeDocs)+len(m.LikeTexts))
	for _, d := range m.LikeDocs {
		like = append(like, obj{"_index": d.Index, "_id": d.ID})
	}
	for _, t := range m.LikeTexts {
		like = append(like, t)
	}
	return obj{
		"fields":               m.Fields,
		"like":                 like,
		"min_term_freq":        m.MinTermFreq,
		"min_doc_freq":         m.MinDocFreq,
		"max_doc_freq":         m.MaxDocFreq,
		"min_word_length":      m.MinWordLength,
		"max_query_terms":      m.MaxQueryTerms,
		"minimum_should_match": m.MinimumShouldMatch,
	}
}

func encodeHighlight(h *query.Highlight) obj {
	fields := obj{}
	for _, f := range h.Fields {
		spec := obj{
			"number_of_fragments": f.Fragments,
			"pre_tags":            []string{h.PreTag},
			"post_tags":           []string{h.PostTag},
		}
		if f.Order != query.OrderNone {
			spec["order"] = string(f.Order)
		}
		fields[f.Field] = spec
	}
	return obj{"fields": fields}
}
