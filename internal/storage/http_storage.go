package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// ImageFetcher retrieves a decoded scan image from a URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

// HTTPImageFetcher fetches scans over HTTP with bounded retries.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP image fetcher tuned for single-scan
// downloads.
func NewHTTPImageFetcher() ImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes the scan. Transient failures (network
// errors, 5xx) are retried with exponential backoff; 4xx responses fail
// immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	var img image.Image

	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		req.Header.Set("Accept", "image/jpeg, image/png, */*")
		req.Header.Set("User-Agent", "Go-MedScan/1.0")

		resp, err := h.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("server error: status code %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("client error: status code %d", resp.StatusCode)
		}

		decoded, _, err := image.Decode(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
		img = decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scan: %w", err)
	}
	return img, nil
}
