package storage

import (
	"context"
	"fmt"

	"github.com/chartmuseum/storage"
)

// LocalClient implements ObjectStorage on a local directory, for
// offline exports where no object store is configured.
type LocalClient struct {
	backend storage.Backend
}

func NewLocalClient(rootDir string) *LocalClient {
	return &LocalClient{backend: storage.NewLocalFilesystemBackend(rootDir)}
}

func (c *LocalClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("local list failed: %w", err)
	}
	results := make([]ObjectInfo, 0)
	for _, object := range files {
		results = append(results, ObjectInfo{
			Key:  object.Path,
			Size: int64(len(object.Content)),
		})
	}
	return results, nil
}

func (c *LocalClient) UploadObject(ctx context.Context, key string, data []byte) error {
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("local write failed: %w", err)
	}
	return nil
}

var _ ObjectStorage = (*LocalClient)(nil)
