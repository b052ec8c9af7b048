package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/itemsearch/internal/domain/search/cursor"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
	"github.com/kailas-cloud/itemsearch/internal/logger"
	"github.com/kailas-cloud/itemsearch/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	OpSearch  = "search"
	OpRelated = "related"
)

// Service answers search and related-items queries: plan, one engine
// call, materialize, paginate. It never fails a request; engine errors
// yield an empty page.
type Service struct {
	planner *Planner
	engine  Engine
	items   ItemLookup
	embed   Embedder
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEmbedder sets the query embedder used when vectors are computed client-side.
func WithEmbedder(e Embedder) Option {
	return func(s *Service) { s.embed = e }
}

// WithClock overrides the time source used for new pagination sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a search service.
func New(engine Engine, items ItemLookup, cfg Config, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		planner: NewPlanner(cfg),
		engine:  engine,
		items:   items,
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Planner returns the service's query planner.
func (s *Service) Planner() *Planner { return s.planner }

// Search returns one page of items matching req.
func (s *Service) Search(ctx context.Context, req *request.Search) result.Page {
	if req.IsEmpty() {
		metrics.SearchRequestsTotal.WithLabelValues(OpSearch, metrics.OutcomeEmpty).Inc()
		return result.Empty()
	}

	cur := cursor.Decode(req.Cursor(), s.now())
	size := s.planner.PageSize(0)

	var seed *Seed
	if s.planner.hybridApplies(req.Sort()) {
		seed = s.vectorize(ctx, SearchSeed(req))
	}

	plan := s.planner.PlanSearch(req, cur, size, seed)
	return s.execute(ctx, OpSearch, &plan, cur, size, req.Viewer(), true)
}

// Related returns one page of items similar to the anchor of req.
func (s *Service) Related(ctx context.Context, req *request.Related) result.Page {
	if !req.HasAnchor() {
		metrics.SearchRequestsTotal.WithLabelValues(OpRelated, metrics.OutcomeEmpty).Inc()
		return result.Empty()
	}

	cur := cursor.Decode(req.Cursor(), s.now())
	size := s.planner.PageSize(req.Limit())

	var seed *Seed
	if s.planner.cfg.SemanticEnabled() {
		seed = s.vectorize(ctx, s.relatedSeed(ctx, req))
	}

	plan := s.planner.PlanRelated(req, cur, size, seed)
	return s.execute(ctx, OpRelated, &plan, cur, size, req.Viewer(), false)
}

// relatedSeed resolves the anchor texts. An anchor item that cannot be
// read falls back to the request title.
func (s *Service) relatedSeed(ctx context.Context, req *request.Related) *Seed {
	title, body := req.Title(), req.Title()
	if req.ID() != "" {
		it, err := s.items.Get(ctx, req.ID())
		switch {
		case err != nil:
			s.log(ctx).Warn("resolve related anchor", zap.String("item_id", req.ID()), zap.Error(err))
		case !it.VisibleTo(req.Viewer()):
			s.log(ctx).Debug("related anchor hidden from viewer", zap.String("item_id", req.ID()))
		default:
			title, body = it.SeedTexts()
		}
	}
	if title == "" && body == "" {
		return nil
	}
	return &Seed{Title: title, Body: body}
}

// vectorize fills seed vectors when embeddings are computed client-side.
// On failure the seed is returned without vectors and the plan stays lexical.
func (s *Service) vectorize(ctx context.Context, seed *Seed) *Seed {
	if seed == nil || !s.planner.cfg.ClientEmbeddings || s.embed == nil {
		return seed
	}

	title, err := s.embed.Embed(ctx, seed.Title)
	if err != nil {
		s.log(ctx).Warn("embed query, falling back to lexical", zap.Error(err))
		return seed
	}
	body := title
	if seed.Body != seed.Title {
		if body, err = s.embed.Embed(ctx, seed.Body); err != nil {
			s.log(ctx).Warn("embed query, falling back to lexical", zap.Error(err))
			return seed
		}
	}

	out := *seed
	out.TitleVector = title.Embedding
	out.BodyVector = body.Embedding
	return &out
}

func (s *Service) execute(
	ctx context.Context, op string, plan *query.Plan,
	cur cursor.Cursor, size int, v viewer.Viewer, overlay bool,
) result.Page {
	log := s.log(ctx).With(zap.String("operation", op), zap.Int("offset", cur.Offset))

	start := time.Now()
	hits, err := s.engine.Search(ctx, plan)
	metrics.SearchEngineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			metrics.SearchRequestsTotal.WithLabelValues(op, metrics.OutcomeCanceled).Inc()
			return result.Empty()
		}
		log.Error("search engine request failed", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues(op, metrics.OutcomeEngineFail).Inc()
		return result.Empty()
	}

	items, err := s.materialize(ctx, hits, size, v, overlay)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Error("materialize search hits", zap.Error(err))
		}
		metrics.SearchRequestsTotal.WithLabelValues(op, metrics.OutcomeCanceled).Inc()
		return result.Empty()
	}

	page := result.Page{Items: items}
	if next := cursor.Next(cur, size); len(hits) == size && next.Offset+size <= cursor.MaxOffset {
		page.Cursor = cursor.Encode(next)
	}
	metrics.SearchRequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return page
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
