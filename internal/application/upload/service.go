package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/id"
)

// KeyPrefix is the object key folder for uploaded images.
const KeyPrefix = "ro-maintenance/"

type Input struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	Image(ctx context.Context, in Input) (*domain.UploadedImage, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	store    objectStore
	maxBytes int64
}

func NewService(store objectStore, maxBytes int64) Service {
	return &service{store: store, maxBytes: maxBytes}
}

// Image stores one image and returns its public URL. The object key doubles
// as the public id.
func (s *service) Image(ctx context.Context, in Input) (*domain.UploadedImage, error) {
	if !strings.HasPrefix(strings.ToLower(in.ContentType), "image/") {
		return nil, fmt.Errorf("only image files are allowed: %w", domain.ErrBadRequest)
	}
	if in.Size > s.maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxBytes, domain.ErrBadRequest)
	}
	// guards against a client that lies about Size
	r := io.LimitReader(in.Reader, s.maxBytes+1)
	counted := &countingReader{r: r}

	key := KeyPrefix + strings.ToLower(id.New()) + extension(in.Filename)
	url, err := s.store.Upload(ctx, key, counted, in.ContentType)
	if err != nil {
		return nil, err
	}
	if counted.n > s.maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxBytes, domain.ErrBadRequest)
	}
	return &domain.UploadedImage{URL: url, PublicID: key}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// extension returns the lowercased extension of name when it is short and
// alphanumeric, otherwise "".
func extension(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, `\`, "/"))))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
