package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage retrieves scans stored in hospital blob containers.
type BlobStorage interface {
	GetScan(ctx context.Context, blobURL string) (image.Image, error)
}

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage builds a blob source from shared-key credentials.
func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

// GetScan downloads and decodes a scan addressed as
// https://host/container?blob=name.
func (s *azureStorage) GetScan(ctx context.Context, blobURL string) (image.Image, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if len(parsedURL.Path) < 2 {
		return nil, fmt.Errorf("blob URL missing container: %s", blobURL)
	}

	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return nil, fmt.Errorf("blob URL missing blob parameter: %s", blobURL)
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob image: %w", err)
	}
	return img, nil
}

// blobFetcher adapts BlobStorage to the ImageFetcher interface.
type blobFetcher struct {
	storage BlobStorage
}

// NewBlobImageFetcher wraps a blob source as an ImageFetcher.
func NewBlobImageFetcher(storage BlobStorage) ImageFetcher {
	return &blobFetcher{storage: storage}
}

func (b *blobFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return b.storage.GetScan(ctx, imageURL)
}
