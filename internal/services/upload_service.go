package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yukikurage/teamdesk-api/internal/storage"
	"golang.org/x/sync/errgroup"
)

var ErrNoFiles = errors.New("at least one file is required")

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// UploadService stores attachments under random names.
type UploadService struct {
	store storage.Store
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store}
}

// Upload stores one file and returns its public URL. Content type and size
// are not checked.
func (s *UploadService) Upload(ctx context.Context, file UploadFile) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", file.Filename, err)
	}
	defer rc.Close()

	url, err := s.store.Put(ctx, objectName(file.Filename), rc)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Filename, err)
	}
	return url, nil
}

// UploadAll uploads files in parallel. URLs are returned in the order the
// uploads completed, not the order submitted. Any failure fails the batch.
func (s *UploadService) UploadAll(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	urls := make([]string, 0, len(files))

	for _, file := range files {
		file := file
		g.Go(func() error {
			url, err := s.Upload(ctx, file)
			if err != nil {
				return err
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}
