package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"arts.org/internal/ids"
)

// InMemory implements Store for tests and database-less runs.
type InMemory struct {
	mu    sync.RWMutex
	files map[string][]byte

	// FailPuts makes Put fail, for exercising upload error paths.
	FailPuts bool
}

// NewInMemory creates an empty in-memory blob store.
func NewInMemory() *InMemory {
	return &InMemory{files: make(map[string][]byte)}
}

func (s *InMemory) Put(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if s.FailPuts {
		return "", errors.New("blob: put failed")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	ref := ids.New() + extensionFor(contentType)
	s.mu.Lock()
	s.files[ref] = buf.Bytes()
	s.mu.Unlock()
	return ref, nil
}

func (s *InMemory) URL(ref string) string {
	return "/files/" + ref
}

func (s *InMemory) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	delete(s.files, ref)
	s.mu.Unlock()
	return nil
}

// Get returns stored content, for test assertions.
func (s *InMemory) Get(ref string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[ref]
	return b, ok
}

// Len reports how many files are stored.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
