// Package itemsearch provides an embeddable Go client for item search
// and related-items queries over an OpenSearch index, with items
// materialized from a Redis-compatible store.
//
// # Search
//
//	client, _ := itemsearch.New(ctx,
//	    itemsearch.WithOpenSearch([]string{"http://localhost:9200"}, "", ""),
//	    itemsearch.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, itemsearch.SearchQuery{
//	    Text: "lightning network url:stacker.news",
//	    Sort: itemsearch.SortRecent,
//	    When: itemsearch.WindowWeek,
//	})
//	next, _ := client.Search(ctx, itemsearch.SearchQuery{Text: "lightning network", Cursor: page.Cursor})
//
// # Related items
//
//	page, _ := client.Related(ctx, itemsearch.RelatedQuery{ID: "123", Limit: 5})
//
// Semantic (hybrid) ranking is enabled with WithSemanticModel. Vectors are
// inferred by the engine unless WithEmbedder supplies a client-side embedder.
package itemsearch
