package store

import (
	"sync"

	"keyward/internal/domain"
)

// MemoryStore keeps every slot in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	deviceID  string
	userID    string
	account   []byte
	pickleKey []byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) LoadDeviceID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceID, nil
}

func (s *MemoryStore) SaveDeviceID(deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceID = deviceID
	return nil
}

func (s *MemoryStore) LoadUserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, nil
}

func (s *MemoryStore) SaveUserID(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return nil
}

func (s *MemoryStore) LoadPickledAccount() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.account), nil
}

func (s *MemoryStore) SavePickledAccount(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = clone(blob)
	return nil
}

func (s *MemoryStore) LoadPickleKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.pickleKey), nil
}

func (s *MemoryStore) SavePickleKey(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickleKey = clone(key)
	return nil
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

var _ domain.KeyStore = (*MemoryStore)(nil)
