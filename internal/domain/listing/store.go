package listing

import (
	"context"
	"io"
)

// ImageStore keeps listing photos in object storage.
type ImageStore interface {
	Put(ctx context.Context, prefix, filename string, content io.Reader) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}
