package repository

import (
	"context"
	"errors"
	"image"
	"net/url"
	"strings"

	"go-medscan/internal/storage"
)

var (
	// ErrInvalidScanURL indicates an unusable scan location
	ErrInvalidScanURL = errors.New("invalid scan URL")

	// ErrScanNotFound indicates the scan was not found
	ErrScanNotFound = errors.New("scan not found")
)

// ScanRepository provides access to scan images regardless of where they are
// stored.
type ScanRepository interface {
	// FetchScan retrieves a decoded scan image
	FetchScan(ctx context.Context, scanURL string) (image.Image, error)

	// ValidateScanURL checks whether the location is acceptable
	ValidateScanURL(scanURL string) error
}

// fetcherRepository routes scan URLs to the matching fetcher: blob-store
// locations to the blob fetcher when one is configured, everything else over
// HTTP.
type fetcherRepository struct {
	httpFetcher storage.ImageFetcher
	blobFetcher storage.ImageFetcher
}

// NewScanRepository creates a repository over the given fetchers; blobFetcher
// may be nil when no blob source is configured.
func NewScanRepository(httpFetcher, blobFetcher storage.ImageFetcher) ScanRepository {
	return &fetcherRepository{
		httpFetcher: httpFetcher,
		blobFetcher: blobFetcher,
	}
}

func (r *fetcherRepository) FetchScan(ctx context.Context, scanURL string) (image.Image, error) {
	if err := r.ValidateScanURL(scanURL); err != nil {
		return nil, err
	}
	if r.blobFetcher != nil && isBlobURL(scanURL) {
		return r.blobFetcher.FetchImage(ctx, scanURL)
	}
	return r.httpFetcher.FetchImage(ctx, scanURL)
}

func (r *fetcherRepository) ValidateScanURL(scanURL string) error {
	if scanURL == "" {
		return ErrInvalidScanURL
	}
	parsed, err := url.Parse(scanURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidScanURL
	}
	// Both fetch paths speak HTTP(S) only.
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidScanURL
	}
	return nil
}

func isBlobURL(scanURL string) bool {
	parsed, err := url.Parse(scanURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}
