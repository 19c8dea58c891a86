// Package overlap embeds the web originality checker in a Go program.
//
// A Client searches the web for fragments of a text, downloads the pages it
// finds and ranks them by how much of the text they share.
//
//	client, _ := overlap.New(ctx,
//	    overlap.WithSearxNG("http://localhost:8888"),
//	    overlap.WithCache("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	rep, err := client.Check(ctx, essay)
//	for _, r := range rep.Results {
//	    fmt.Println(r.URL, r.Score)
//	}
//
// Blank input fails with ErrEmptyInput. Search and fetch failures never fail a
// check; they show up in Report.Stats.
package overlap
