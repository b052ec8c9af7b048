package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	dbOpenSearch "github.com/kailas-cloud/itemsearch/internal/db/opensearch"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/cursor"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/kind"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/window"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
	searchuc "github.com/kailas-cloud/itemsearch/internal/usecase/search"
)

// planOptions are the deployment settings a plan depends on.
type planOptions struct {
	index    string
	modelID  string
	cursor   string
	viewerID string
}

func (o *planOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.index, "index", "item", "Search index name")
	cmd.Flags().StringVar(&o.modelID, "semantic", "", "Engine model ID; enables hybrid ranking")
	cmd.Flags().StringVar(&o.cursor, "cursor", "", "Pagination cursor")
	cmd.Flags().StringVar(&o.viewerID, "viewer", "", "Viewer user ID (empty for anonymous)")
}

func (o *planOptions) planner() *searchuc.Planner {
	return searchuc.NewPlanner(searchuc.Config{Index: o.index, ModelID: o.modelID})
}

// NewPlanCmd creates the 'plan' command group that prints engine requests without sending them.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the OpenSearch request body for a query",
		Long:  `Build the engine request for a search or related query offline and print it as JSON.`,
	}
	cmd.AddCommand(NewPlanSearchCmd())
	cmd.AddCommand(NewPlanRelatedCmd())
	return cmd
}

// NewPlanSearchCmd creates the 'plan search' command.
func NewPlanSearchCmd() *cobra.Command {
	var opts planOptions
	var sub, sort, what, when, from, to string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the request body of a search",
		Example: `  searchctl plan search "lightning url:stacker.news" --sort recent
  searchctl plan search "nym:k00b zaps" --when custom --from 2024-01-01T00:00:00Z
  searchctl plan search bitcoin --semantic my-model-id`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWindow(when, from, to)
			if err != nil {
				return err
			}
			m, err := mode.Parse(sort)
			if err != nil {
				return err
			}
			k, err := kind.Parse(what)
			if err != nil {
				return err
			}
			req, err := request.NewSearch(joinArgs(args), sub, m, k, w, opts.cursor, viewer.New(opts.viewerID))
			if err != nil {
				return err
			}
			if req.IsEmpty() {
				return fmt.Errorf("empty query: no engine request is sent")
			}

			p := opts.planner()
			cur := cursor.Decode(req.Cursor(), time.Now())
			plan := p.PlanSearch(&req, cur, p.PageSize(0), searchuc.SearchSeed(&req))
			return printPlan(cmd.OutOrStdout(), &plan)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&sub, "sub", "", "Sub-community name")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort mode: hot, comments, sats, recent")
	cmd.Flags().StringVar(&what, "what", "", "Item kind: all, posts, comments")
	cmd.Flags().StringVar(&when, "when", "", "Time window: day, week, month, year, forever, custom")
	cmd.Flags().StringVar(&from, "from", "", "Custom window start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Custom window end (RFC 3339)")

	return cmd
}

// NewPlanRelatedCmd creates the 'plan related' command.
func NewPlanRelatedCmd() *cobra.Command {
	var opts planOptions
	var id, title, minMatch string
	var limit int

	cmd := &cobra.Command{
		Use:   "related",
		Short: "Print the request body of a related-items query",
		Example: `  searchctl plan related --id 123 --title "Lightning fees"
  searchctl plan related --title "nostr relays" --min-match 30%`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := request.NewRelated(title, id, opts.cursor, limit, minMatch, viewer.New(opts.viewerID))
			if err != nil {
				return err
			}
			if !req.HasAnchor() {
				return fmt.Errorf("no anchor: set --id or --title")
			}

			p := opts.planner()
			var seed *searchuc.Seed
			if req.Title() != "" {
				seed = &searchuc.Seed{Title: req.Title(), Body: req.Title()}
			}
			cur := cursor.Decode(req.Cursor(), time.Now())
			plan := p.PlanRelated(&req, cur, p.PageSize(req.Limit()), seed)
			return printPlan(cmd.OutOrStdout(), &plan)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Anchor item ID")
	cmd.Flags().StringVar(&title, "title", "", "Anchor title")
	cmd.Flags().StringVar(&minMatch, "min-match", "", "more_like_this minimum_should_match override")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (0 for the default)")

	return cmd
}

func printPlan(w io.Writer, plan *query.Plan) error {
	body, err := dbOpenSearch.MarshalPlan(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("indent plan: %w", err)
	}
	fmt.Fprintf(w, "POST /%s/_search\n%s\n", plan.Index, buf.String())
	return nil
}

func parseWindow(when, from, to string) (window.Window, error) {
	fromT, toT, err := parseBounds(from, to)
	if err != nil {
		return window.Window{}, err
	}
	if when == "" && (from != "" || to != "") {
		when = string(window.Custom)
	}
	sel, err := window.ParseSelector(when)
	if err != nil {
		return window.Window{}, err
	}
	return window.New(sel, fromT, toT)
}

func parseBounds(from, to string) (fromT, toT time.Time, err error) {
	if from != "" {
		if fromT, err = time.Parse(time.RFC3339, from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if toT, err = time.Parse(time.RFC3339, to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return fromT, toT, nil
}
