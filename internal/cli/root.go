package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/itemsearch/internal/version"
)

// NewRootCmd creates the searchctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "searchctl",
		Short: "Inspect and run item search queries",
		Long: `searchctl builds the engine requests the search service sends and runs
search and related-items queries against the configured backends.

Plans are built offline; search and related read config/<env>.yaml.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewPlanCmd())
	root.AddCommand(NewSearchCmd())
	root.AddCommand(NewRelatedCmd())
	return root
}
