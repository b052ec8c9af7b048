package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/itemsearch/internal/config"
	openaiEmb "github.com/kailas-cloud/itemsearch/internal/transport/openai"
	itemsearch "github.com/kailas-cloud/itemsearch/pkg/sdk"
)

// NewSearchCmd creates the 'search' command that queries the live backends.
func NewSearchCmd() *cobra.Command {
	var env, viewerID, cursor string
	var q itemsearch.SearchQuery
	var sort, what, when, from, to string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items",
		Example: `  searchctl search "lightning network" --sort recent --when week
  searchctl search "url:github.com nostr" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromT, toT, err := parseBounds(from, to)
			if err != nil {
				return err
			}
			q.Text = joinArgs(args)
			q.Sort = itemsearch.SortMode(sort)
			q.What = itemsearch.Kind(what)
			q.When = itemsearch.Window(when)
			q.From, q.To = fromT, toT
			q.Cursor = cursor
			q.ViewerID = viewerID

			ctx := cmd.Context()
			client, err := connect(ctx, env)
			if err != nil {
				return err
			}
			defer client.Close()

			page, err := client.Search(ctx, q)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), page, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&env, "env", config.GetEnv(), "Configuration environment (config/<env>.yaml)")
	cmd.Flags().StringVar(&q.Sub, "sub", "", "Sub-community name")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort mode: hot, comments, sats, recent")
	cmd.Flags().StringVar(&what, "what", "", "Item kind: all, posts, comments")
	cmd.Flags().StringVar(&when, "when", "", "Time window: day, week, month, year, forever, custom")
	cmd.Flags().StringVar(&from, "from", "", "Custom window start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Custom window end (RFC 3339)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().StringVar(&viewerID, "viewer", "", "Viewer user ID (empty for anonymous)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// NewRelatedCmd creates the 'related' command that queries the live backends.
func NewRelatedCmd() *cobra.Command {
	var env string
	var q itemsearch.RelatedQuery
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "related",
		Short: "List items related to an anchor item",
		Example: `  searchctl related --id 123
  searchctl related --title "Self-custody wallets" --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if q.ID == "" && strings.TrimSpace(q.Title) == "" {
				return fmt.Errorf("no anchor: set --id or --title")
			}

			ctx := cmd.Context()
			client, err := connect(ctx, env)
			if err != nil {
				return err
			}
			defer client.Close()

			page, err := client.Related(ctx, q)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), page, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&env, "env", config.GetEnv(), "Configuration environment (config/<env>.yaml)")
	cmd.Flags().StringVar(&q.ID, "id", "", "Anchor item ID")
	cmd.Flags().StringVar(&q.Title, "title", "", "Anchor title")
	cmd.Flags().StringVar(&q.MinMatch, "min-match", "", "more_like_this minimum_should_match override")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Page size (0 for the default)")
	cmd.Flags().StringVar(&q.Cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().StringVar(&q.ViewerID, "viewer", "", "Viewer user ID (empty for anonymous)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func connect(ctx context.Context, env string) (*itemsearch.Client, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}
	client, err := itemsearch.New(ctx, clientOptions(&cfg)...)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return client, nil
}

// clientOptions maps the service configuration onto SDK options.
func clientOptions(cfg *config.Config) []itemsearch.Option {
	opts := []itemsearch.Option{
		itemsearch.WithOpenSearch(cfg.Search.Addrs, cfg.Search.Username, cfg.Search.Password),
		itemsearch.WithIndex(cfg.Search.Index),
		itemsearch.WithEngineTimeout(time.Duration(cfg.Search.TimeoutSec) * time.Second),
		itemsearch.WithRedis(cfg.Items.Addrs[0], cfg.Items.Password),
		itemsearch.WithKeyPrefix(cfg.Items.KeyPrefix),
		itemsearch.WithPageSize(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize),
	}
	if cfg.Search.ClientEmbeddings() {
		emb := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		opts = append(opts, itemsearch.WithSemanticModel(cfg.Search.ModelID),
			itemsearch.WithEmbedder(sdkEmbedder{emb}, cfg.Embedding.Model))
	} else if cfg.Search.ModelID != "" {
		opts = append(opts, itemsearch.WithSemanticModel(cfg.Search.ModelID))
	}
	return opts
}

// sdkEmbedder exposes the OpenAI-compatible embedder through the SDK contract.
type sdkEmbedder struct {
	inner *openaiEmb.Embedder
}

func (e sdkEmbedder) Embed(ctx context.Context, text string) (itemsearch.EmbeddingResult, error) {
	r, err := e.inner.Embed(ctx, text)
	if err != nil {
		return itemsearch.EmbeddingResult{}, err
	}
	return itemsearch.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (e sdkEmbedder) HealthCheck(ctx context.Context) error {
	return e.inner.HealthCheck(ctx)
}

type pageJSON struct {
	Items  []itemJSON `json:"items"`
	Cursor *string    `json:"cursor"`
}

type itemJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	SearchTitle string  `json:"searchTitle,omitempty"`
	SearchText  *string `json:"searchText,omitempty"`
	UserName    string  `json:"userName,omitempty"`
	SubName     string  `json:"subName,omitempty"`
	WVotes      float64 `json:"wvotes"`
	Sats        int64   `json:"sats"`
	Comments    int     `json:"ncomments"`
	CreatedAt   string  `json:"createdAt"`
}

func printPage(w io.Writer, page itemsearch.Page, asJSON bool) error {
	if asJSON {
		out := pageJSON{Items: make([]itemJSON, len(page.Items))}
		for i, it := range page.Items {
			out.Items[i] = itemJSON{
				ID:          it.ID,
				Title:       it.Title,
				SearchTitle: it.SearchTitle,
				SearchText:  it.SearchText,
				UserName:    it.UserName,
				SubName:     it.SubName,
				WVotes:      it.WeightedVotes,
				Sats:        it.Sats,
				Comments:    it.Comments,
				CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
			}
		}
		if page.HasMore() {
			c := page.Cursor
			out.Cursor = &c
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	for _, it := range page.Items {
		title := it.SearchTitle
		if title == "" {
			title = it.Title
		}
		fmt.Fprintf(w, "%-10s %s\n", it.ID, title)
		if it.SearchText != nil {
			fmt.Fprintf(w, "           %s\n", *it.SearchText)
		}
	}
	if page.HasMore() {
		fmt.Fprintf(w, "\nNext page: --cursor %s\n", page.Cursor)
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
