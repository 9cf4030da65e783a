package services

import (
	"context"
	"sync"

	"github.com/hazratullahh/eceomerce-jawad/models"
)

// countingTranslator prefixes the target language and records every call.
type countingTranslator struct {
	mu    sync.Mutex
	calls []string
}

func (t *countingTranslator) Translate(_ context.Context, text, target string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, text)
	return target + ":" + text
}

func (t *countingTranslator) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func (t *countingTranslator) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
	failWith  error
}

func (s *fakeImageStore) Upload(_ context.Context, data []byte, contentType, ext string) (models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	return models.Image{URL: "https://img.test/obj" + ext, PublicID: "obj" + ext}, nil
}

func (s *fakeImageStore) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, publicID)
	return s.failWith
}

func (s *fakeImageStore) destroyedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.destroyed...)
}

func ptr[T any](v T) *T { return &v }
