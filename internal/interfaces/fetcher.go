package interfaces

import "context"

// Fetcher downloads raw document content over HTTP.
type Fetcher interface {
	// Fetch retrieves the content at url. A non-2xx response is an error.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
