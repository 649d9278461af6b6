package preview

import (
	"context"
	"sync"

	"imageCompressor/compressor/models"
)

type MemoryStore struct {
	mu        sync.Mutex
	artifacts map[models.PreviewHandle]Artifact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[models.PreviewHandle]Artifact)}
}

func (s *MemoryStore) Create(_ context.Context, artifact Artifact) (models.PreviewHandle, error) {
	handle := newHandle()

	s.mu.Lock()
	s.artifacts[handle] = artifact
	s.mu.Unlock()

	return handle, nil
}

func (s *MemoryStore) Open(_ context.Context, handle models.PreviewHandle) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	artifact, ok := s.artifacts[handle]
	if !ok {
		return nil, ErrHandleNotFound
	}
	return &artifact, nil
}

func (s *MemoryStore) Revoke(_ context.Context, handle models.PreviewHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artifacts[handle]; !ok {
		return ErrHandleNotFound
	}
	delete(s.artifacts, handle)
	return nil
}

// Len reports the number of live handles.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}
