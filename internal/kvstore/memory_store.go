package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend 进程内存储后端（测试与 storage.driver=memory 使用）
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryBackend 创建内存存储后端
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]string)}
}

// Name 后端名称
func (b *MemoryBackend) Name() string {
	return "memory"
}

// For 获取命名空间视图
func (b *MemoryBackend) For(namespace string) Store {
	return &memoryStore{backend: b, namespace: NormalizeNamespace(namespace)}
}

// Close 无需释放资源
func (b *MemoryBackend) Close() error {
	return nil
}

type memoryStore struct {
	backend   *MemoryBackend
	namespace string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", false, err
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	val, ok := s.backend.data[s.namespace][normalized]
	return val, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	bucket, ok := s.backend.data[s.namespace]
	if !ok {
		bucket = make(map[string]string)
		s.backend.data[s.namespace] = bucket
	}
	bucket[normalized] = value
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.data[s.namespace], normalized)
	return nil
}
