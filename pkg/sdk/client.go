package itemsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/itemsearch/internal/db"
	dbOpenSearch "github.com/kailas-cloud/itemsearch/internal/db/opensearch"
	dbRedis "github.com/kailas-cloud/itemsearch/internal/db/redis"
	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/itemsearch/internal/metrics"
	itemrepo "github.com/kailas-cloud/itemsearch/internal/repository/item"
	"github.com/kailas-cloud/itemsearch/internal/repository/itemcache"
	healthuc "github.com/kailas-cloud/itemsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndex            = "item"
	defaultKeyPrefix        = "itemsearch:"
	defaultCacheTTL         = 30 * time.Second
)

// Operation names reported by the observer.
const (
	opSearch  = "search"
	opRelated = "related"
)

// Internal interface for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Search) result.Page
	Related(ctx context.Context, req *request.Related) result.Page
}

// Client is the itemsearch SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the item store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index:     defaultIndex,
		keyPrefix: defaultKeyPrefix,
		cacheTTL:  defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.engineAddrs) == 0 {
		return nil, errors.New("itemsearch: search engine address required (use WithOpenSearch)")
	}
	if len(cfg.itemAddrs) == 0 {
		return nil, errors.New("itemsearch: item store address required (use WithRedis)")
	}

	engine, err := dbOpenSearch.New(dbOpenSearch.Config{
		Addrs:    cfg.engineAddrs,
		Username: cfg.engineUser,
		Password: cfg.enginePassword,
		Timeout:  cfg.engineTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("itemsearch: create engine client: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.itemAddrs,
		Password: cfg.itemPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("itemsearch: create item store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("itemsearch: item store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, engine, cfg, obs), nil
}

func wireClient(store db.Store, engine *dbOpenSearch.Engine, cfg *clientConfig, obs *observer) *Client {
	var items searchuc.ItemLookup = itemrepo.New(store, cfg.keyPrefix)
	if cfg.cacheSize > 0 {
		items = itemcache.New(items, cfg.cacheSize, cfg.cacheTTL, metrics.ItemCacheTotal)
	}

	var opts []searchuc.Option
	var embHealth healthuc.EmbeddingChecker
	if cfg.embedder != nil {
		adapter := &embedderAdapter{inner: cfg.embedder}
		opts = append(opts, searchuc.WithEmbedder(adapter))
		if hc, ok := cfg.embedder.(healthuc.EmbeddingChecker); ok {
			embHealth = hc
		}
	}

	searchSvc := searchuc.New(engine, items, searchuc.Config{
		Index:            cfg.index,
		ModelID:          cfg.modelID,
		ClientEmbeddings: cfg.embedder != nil,
		DefaultPageSize:  cfg.defaultPageSize,
		MaxPageSize:      cfg.maxPageSize,
	}, nil, opts...)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, engine, embHealth),
		obs:       obs,
	}
}

// Close releases the item store connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs a free-text search. It fails only on invalid queries;
// engine failures yield an empty page.
func (c *Client) Search(ctx context.Context, q SearchQuery) (Page, error) {
	start := time.Now()
	req, err := searchRequest(q)
	if err != nil {
		c.obs.observe(opSearch, start, 0, err)
		return Page{}, err
	}
	page := c.searchSvc.Search(ctx, &req)
	c.obs.observe(opSearch, start, len(page.Items), nil)
	return pageFromResult(page), nil
}

// Related returns items similar to the anchor. It fails only on invalid queries.
func (c *Client) Related(ctx context.Context, q RelatedQuery) (Page, error) {
	start := time.Now()
	req, err := relatedRequest(q)
	if err != nil {
		c.obs.observe(opRelated, start, 0, err)
		return Page{}, err
	}
	page := c.searchSvc.Related(ctx, &req)
	c.obs.observe(opRelated, start, len(page.Items), nil)
	return pageFromResult(page), nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
