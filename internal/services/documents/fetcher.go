// -----------------------------------------------------------------------
// Document Fetcher - Downloads source PDFs over HTTP
// -----------------------------------------------------------------------

package documents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/httpclient"
	"github.com/ternarybob/iuris/internal/interfaces"
)

// Fetcher downloads documents over HTTP with a bounded timeout.
type Fetcher struct {
	client *http.Client
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		client: httpclient.NewDefaultHTTPClient(timeout),
		logger: logger,
	}
}

// Fetch downloads the resource at url and returns its raw bytes.
// Non-2xx responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "iuris/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download of %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Downloaded document")

	return body, nil
}
