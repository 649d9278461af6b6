// Package preview hands out revocable references to encoded artifacts so
// they can be displayed or saved without being persisted.
package preview

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"imageCompressor/compressor/models"
)

const handlePrefix = "preview:"

var ErrHandleNotFound = errors.New("preview handle not found")

type Artifact struct {
	Name      string
	MediaType string
	Data      []byte
}

// Store allocates and releases preview handles. A handle must be
// revoked exactly once; revoking an unknown handle reports ErrHandleNotFound.
type Store interface {
	Create(ctx context.Context, artifact Artifact) (models.PreviewHandle, error)
	Open(ctx context.Context, handle models.PreviewHandle) (*Artifact, error)
	Revoke(ctx context.Context, handle models.PreviewHandle) error
}

func newHandle() models.PreviewHandle {
	return models.PreviewHandle(handlePrefix + uuid.New().String())
}
