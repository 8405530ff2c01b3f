package repository

import (
	"context"
	"errors"
	"image"
	"testing"
)

// fakeFetcher records whether it was used and returns a canned image.
type fakeFetcher struct {
	called bool
	err    error
}

func (f *fakeFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return image.NewGray(image.Rect(0, 0, 10, 10)), nil
}

func TestValidateScanURL(t *testing.T) {
	repo := NewScanRepository(&fakeFetcher{}, nil)

	valid := []string{
		"https://example.com/scan.png",
		"http://hospital.local/scans/123.jpg",
		"https://account.blob.core.windows.net/scans?blob=ct-001.png",
	}
	for _, u := range valid {
		if err := repo.ValidateScanURL(u); err != nil {
			t.Errorf("Expected %q to be valid, got %v", u, err)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"/relative/path/scan.png",
		"ftp://example.com/scan.png",
		"gopher://example.com/scan.png",
		"file://example.com/scan.png",
	}
	for _, u := range invalid {
		if err := repo.ValidateScanURL(u); !errors.Is(err, ErrInvalidScanURL) {
			t.Errorf("Expected ErrInvalidScanURL for %q, got %v", u, err)
		}
	}
}

func TestFetchScan_RoutesToHTTP(t *testing.T) {
	httpFetcher := &fakeFetcher{}
	blobFetcher := &fakeFetcher{}
	repo := NewScanRepository(httpFetcher, blobFetcher)

	if _, err := repo.FetchScan(context.Background(), "https://example.com/scan.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !httpFetcher.called || blobFetcher.called {
		t.Errorf("Expected HTTP fetcher only, got http=%v blob=%v",
			httpFetcher.called, blobFetcher.called)
	}
}

func TestFetchScan_RoutesToBlob(t *testing.T) {
	httpFetcher := &fakeFetcher{}
	blobFetcher := &fakeFetcher{}
	repo := NewScanRepository(httpFetcher, blobFetcher)

	url := "https://account.blob.core.windows.net/scans?blob=ct-001.png"
	if _, err := repo.FetchScan(context.Background(), url); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !blobFetcher.called || httpFetcher.called {
		t.Errorf("Expected blob fetcher only, got http=%v blob=%v",
			httpFetcher.called, blobFetcher.called)
	}
}

func TestFetchScan_BlobURLWithoutBlobFetcher(t *testing.T) {
	// Without a configured blob source, blob-store URLs fall back to HTTP.
	httpFetcher := &fakeFetcher{}
	repo := NewScanRepository(httpFetcher, nil)

	url := "https://account.blob.core.windows.net/scans?blob=ct-001.png"
	if _, err := repo.FetchScan(context.Background(), url); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !httpFetcher.called {
		t.Error("Expected HTTP fallback for blob URL")
	}
}

func TestFetchScan_InvalidURL(t *testing.T) {
	httpFetcher := &fakeFetcher{}
	repo := NewScanRepository(httpFetcher, nil)

	if _, err := repo.FetchScan(context.Background(), ""); !errors.Is(err, ErrInvalidScanURL) {
		t.Errorf("Expected ErrInvalidScanURL, got %v", err)
	}
	if httpFetcher.called {
		t.Error("Expected no fetch attempt for invalid URL")
	}
}

func TestFetchScan_PropagatesFetchError(t *testing.T) {
	want := errors.New("connection refused")
	repo := NewScanRepository(&fakeFetcher{err: want}, nil)

	if _, err := repo.FetchScan(context.Background(), "https://example.com/scan.png"); !errors.Is(err, want) {
		t.Errorf("Expected fetch error propagated, got %v", err)
	}
}
