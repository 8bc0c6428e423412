// Package memory provides an in-memory extended-attribute store, primarily
// for tests and for hosts without native extended attribute support.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/store"
)

// Store keeps attributes in an ordered B-tree keyed by path + attribute
// name, so List comes back sorted without an extra pass.
type Store struct {
	mu    sync.RWMutex
	attrs *btree.Map[string, []byte]
}

// separator between path and attribute name inside tree keys; NUL cannot
// appear in either.
const sep = "\x00"

func New() *Store {
	return &Store{
		attrs: btree.NewMap[string, []byte](0),
	}
}

// Name returns the identifier name defined for this store
func (*Store) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (s *Store) Open(ctx context.Context) error {
	return nil
}

// Close is part of the lifecycle behaviour and gets called when done.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs.Clear()
	return nil
}

// GetCapabilities returns the capabilities supported by this store.
func (s *Store) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityListOrdered,
		},
	}
}

func (s *Store) Get(ctx context.Context, path, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.attrs.Get(path + sep + key)
	if !exists {
		return nil, data.ErrNotExist
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Set(ctx context.Context, path, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.attrs.Set(path+sep+key, stored)
	return nil
}

func (s *Store) Remove(ctx context.Context, path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, existed := s.attrs.Delete(path + sep + key); !existed {
		return data.ErrNotExist
	}
	return nil
}

func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := path + sep
	var keys []string
	s.attrs.Ascend(prefix, func(k string, _ []byte) bool {
		if !strings.HasPrefix(k, prefix) {
			return false
		}
		keys = append(keys, strings.TrimPrefix(k, prefix))
		return true
	})
	return keys, nil
}
