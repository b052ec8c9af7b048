package search

// Default page sizes.
const (
	DefaultPageSize = 21
	MaxPageSize     = 100
)

// Config is the deployment configuration of the planner and service.
// It is fixed for the process lifetime.
type Config struct {
	// Index is the search index the plans target.
	Index string
	// ModelID names the embedding model. Its presence enables semantic search.
	ModelID string
	// ClientEmbeddings makes the service compute query vectors itself
	// instead of letting the engine infer them from ModelID.
	ClientEmbeddings bool
	DefaultPageSize  int
	MaxPageSize      int
}

// SemanticEnabled reports whether vector clauses may be planned.
func (c Config) SemanticEnabled() bool { return c.ModelID != "" }

func (c Config) withDefaults() Config {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = MaxPageSize
	}
	if c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = c.MaxPageSize
	}
	return c
}

// pageSize clamps a requested page size; 0 selects the default.
func (c Config) pageSize(requested int) int {
	if requested <= 0 {
		return c.DefaultPageSize
	}
	if requested > c.MaxPageSize {
		return c.MaxPageSize
	}
	return requested
}
