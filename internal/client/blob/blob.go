// Package blob stores binary payloads (recorded audio) and hands back a URL
// they can be fetched from.
package blob

import (
	"context"
)

// Store uploads and deletes payloads at caller-chosen paths.
type Store interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

type hostedClient interface {
	UploadFile(ctx context.Context, path string, data []byte) (string, error)
	DeleteFile(ctx context.Context, path string) error
}

// Hosted is the Store backed by the hosted service's own object storage.
type Hosted struct {
	c hostedClient
}

func NewHosted(c hostedClient) *Hosted {
	return &Hosted{c: c}
}

func (h *Hosted) Upload(ctx context.Context, path string, data []byte) (string, error) {
	return h.c.UploadFile(ctx, path, data)
}

func (h *Hosted) Delete(ctx context.Context, path string) error {
	return h.c.DeleteFile(ctx, path)
}
