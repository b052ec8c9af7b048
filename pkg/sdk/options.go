package itemsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	engineAddrs    []string
	engineUser     string
	enginePassword string
	engineTimeout  time.Duration
	index          string

	itemAddrs    []string
	itemPassword string
	keyPrefix    string
	cacheSize    int
	cacheTTL     time.Duration

	modelID  string
	embedder Embedder

	defaultPageSize int
	maxPageSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenSearch configures the search engine cluster.
func WithOpenSearch(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineAddrs = addrs
		c.engineUser = username
		c.enginePassword = password
	})
}

// WithIndex sets the search index name. Default: "item".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithEngineTimeout bounds a single engine round-trip.
func WithEngineTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineTimeout = d
	})
}

// WithRedis configures the item store.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.itemAddrs = []string{addr}
		c.itemPassword = password
	})
}

// WithKeyPrefix sets the item store key prefix. Default: "itemsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithItemCache enables an in-process LRU in front of the item store.
func WithItemCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithSemanticModel enables hybrid ranking with the given engine model ID.
func WithSemanticModel(modelID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelID = modelID
	})
}

// WithEmbedder computes query vectors in the client instead of the engine.
// model labels the vectors and enables semantic search when no engine
// model was set with WithSemanticModel.
func WithEmbedder(e Embedder, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
		if c.modelID == "" {
			c.modelID = model
		}
	})
}

// WithPageSize sets the default and maximum page sizes. Defaults: 21 and 100.
func WithPageSize(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
