package feedback

import (
	"context"
	"io"
)

type Repository interface {
	// Create stores the feedback together with its images.
	Create(ctx context.Context, feedback *Feedback) error
}

type ImageStore interface {
	Put(ctx context.Context, prefix, filename string, content io.Reader) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}
