// Package wikisearch embeds the wikisearch engine in a Go program.
//
// The client opens the same stores and embedder chain as the API server
// and exposes item management plus cosine similarity search:
//
//	client, _ := wikisearch.New(ctx,
//	    wikisearch.WithSQLite("data/guides.db"),
//	    wikisearch.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "", ""),
//	)
//	defer client.Close()
//
//	_, _ = client.Items("guides").Create(ctx, wikisearch.Item{
//	    Slug:    "fargesystem",
//	    Title:   "Fargesystem",
//	    Content: "Bruk fargepaletten ...",
//	})
//	hits, _ := client.Search("guides").Query(ctx, "hvilke farger", 5)
package wikisearch
