package docstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store keyed by joined path, used by tests and
// by callers that render documents that are not on disk.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns a store holding docs keyed by "a/b" paths. The empty
// key is the index document.
func NewMemoryStore(docs map[string]string) *MemoryStore {
	m := &MemoryStore{docs: make(map[string][]byte, len(docs))}
	for k, v := range docs {
		m.docs[strings.Trim(k, "/")] = []byte(v)
	}
	return m
}

// Put stores a document.
func (m *MemoryStore) Put(path string, src []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[strings.Trim(path, "/")] = src
}

func (m *MemoryStore) Read(ctx context.Context, segments []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.Join(segments, "/")
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.docs[key]
	if !ok {
		return nil, missing(key, nil)
	}
	return src, nil
}
