package harvest

import "context"

// Searcher returns candidate URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// Fetcher downloads a page body. Non-2xx responses fail with *domain.StatusError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns a page body into text.
type Extractor interface {
	Extract(body []byte, pageURL string) (string, error)
}

// PageLoader returns the extracted text of a page.
type PageLoader interface {
	Load(ctx context.Context, url string) (string, error)
}
