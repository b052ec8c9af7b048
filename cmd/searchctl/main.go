/*
Package main is the entry point for the searchctl CLI.

Usage:

	searchctl [command]

Available Commands:

	plan search   Print the request body of a search
	plan related  Print the request body of a related-items query
	search        Search items
	related       List items related to an anchor item

Examples:

	# Inspect the hybrid request for a query
	searchctl plan search "lightning fees" --semantic my-model-id

	# Run a query against the local backends
	ENV=local searchctl search "nostr relays" --sort recent
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/itemsearch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
