// Package opensearch executes query plans against an OpenSearch cluster.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kailas-cloud/itemsearch/internal/db"
	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
)

// Config holds cluster connection parameters.
type Config struct {
	Addrs    []string
	Username string
	Password string
	// Timeout bounds a single search round-trip; zero leaves it to the caller's context.
	Timeout time.Duration
	// Transport overrides the HTTP transport (tests, custom TLS).
	Transport http.RoundTripper
}

// Engine runs query plans through the OpenSearch _search API.
type Engine struct {
	client  *opensearch.Client
	timeout time.Duration
}

// New creates an engine client. It does not contact the cluster.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Engine{client: client, timeout: cfg.Timeout}, nil
}

// Search executes plan and returns hits in engine rank order.
func (e *Engine) Search(ctx context.Context, plan *query.Plan) ([]result.Hit, error) {
	body, err := MarshalPlan(plan)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := opensearchapi.SearchRequest{
		Index: []string{plan.Index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, &db.Error{Op: db.OpSearch, Err: err})
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, responseError(res)
	}

	hits, err := decodeHits(res.Body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return hits, nil
}

// Ping checks cluster reachability.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("%w: ping status %d", domain.ErrEngineUnavailable, res.StatusCode)
	}
	return nil
}

type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func responseError(res *opensearchapi.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	if eb.Error.Type == "index_not_found_exception" {
		return &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, eb.Error.Reason)}
	}

	reason := eb.Error.Reason
	if reason == "" {
		reason = string(data)
	}
	err := fmt.Errorf("status %d: %s", res.StatusCode, reason)
	if res.StatusCode >= http.StatusInternalServerError {
		err = fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	return &db.Error{Op: db.OpSearch, Err: err}
}

type searchResponse struct {
	Hits struct {
		Hits []rawHit `json:"hits"`
	} `json:"hits"`
}

type rawHit struct {
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

type hitSource struct {
	ID json.RawMessage `json:"id"`
}

func decodeHits(r io.Reader) ([]result.Hit, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]result.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var score float64
		if h.Score != nil {
			score = *h.Score
		}
		hits = append(hits, result.NewHit(itemID(h), score, h.Highlight))
	}
	return hits, nil
}

// itemID prefers the stored item id from _source, which may be indexed
// as a string or a number, and falls back to the document _id.
func itemID(h rawHit) string {
	var src hitSource
	if len(h.Source) == 0 || json.Unmarshal(h.Source, &src) != nil || len(src.ID) == 0 {
		return h.ID
	}
	var s string
	if err := json.Unmarshal(src.ID, &s); err == nil && s != "" {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(src.ID, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return h.ID
}
