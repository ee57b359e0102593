// Package kbsearch embeds the knowledge-base search engine in a Go program.
//
// The client talks to the PostgreSQL/pgvector knowledge tables directly and
// runs the same tiered search as the HTTP service: indexed vector match,
// in-memory vector scan, then keyword matching.
//
//	client, _ := kbsearch.New(ctx,
//	    kbsearch.WithPostgres(os.Getenv("DATABASE_URL")),
//	    kbsearch.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "text-embedding-3-small"),
//	)
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, kbsearch.SearchOptions{
//	    Query: "where is the step-free entrance",
//	    TopK:  3,
//	})
package kbsearch
