package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryObject is an object held by a MemoryStore.
type MemoryObject struct {
	Body []byte
	Opts PutOptions
}

// MemoryStore is an in-process ObjectStore used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]MemoryObject
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string]MemoryObject),
	}
}

func (m *MemoryStore) Bucket() string {
	return m.bucket
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[normalizeKey(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return append([]byte(nil), obj.Body...), nil
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, opts PutOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[normalizeKey(key)] = MemoryObject{Body: append([]byte(nil), body...), Opts: opts}
	return nil
}

func (m *MemoryStore) Copy(_ context.Context, srcKey, dstKey string, opts PutOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[normalizeKey(srcKey)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, srcKey)
	}
	m.objects[normalizeKey(dstKey)] = MemoryObject{Body: append([]byte(nil), obj.Body...), Opts: opts}
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[normalizeKey(key)]
	return ok, nil
}

// Object returns a stored object for inspection.
func (m *MemoryStore) Object(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[normalizeKey(key)]
	return obj, ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// MemoryFactory hands out one MemoryStore per bucket.
type MemoryFactory struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
	Err    error
	Opened []Credentials
}

func NewMemoryFactory(stores ...*MemoryStore) *MemoryFactory {
	f := &MemoryFactory{stores: make(map[string]*MemoryStore)}
	for _, s := range stores {
		f.stores[s.Bucket()] = s
	}
	return f
}

func (f *MemoryFactory) Open(_ context.Context, creds Credentials) (ObjectStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = append(f.Opened, creds)
	if f.Err != nil {
		return nil, f.Err
	}
	store, ok := f.stores[creds.Bucket]
	if !ok {
		store = NewMemoryStore(creds.Bucket)
		f.stores[creds.Bucket] = store
	}
	return store, nil
}
