package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"keyward/internal/domain"
)

const (
	deviceFile    = "device.json"
	accountFile   = "account.pickle"
	pickleKeyFile = "pickle_key.enc"
)

var errNoPassphrase = errors.New("store: passphrase required to protect the pickle key")

type deviceRecord struct {
	DeviceID string `json:"device_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// FileStore persists key material under a directory. The pickle key is
// sealed with a passphrase; the account pickle is already sealed by the
// pickle key and is written as-is.
type FileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir, passphrase string) *FileStore {
	return &FileStore{dir: dir, passphrase: passphrase}
}

// LoadDeviceID returns the persisted device id, or "" if none.
func (s *FileStore) LoadDeviceID() (string, error) {
	rec, err := s.loadDevice()
	return rec.DeviceID, err
}

// SaveDeviceID records the device id.
func (s *FileStore) SaveDeviceID(deviceID string) error {
	return s.updateDevice(func(rec *deviceRecord) { rec.DeviceID = deviceID })
}

// LoadUserID returns the persisted user id, or "" if none.
func (s *FileStore) LoadUserID() (string, error) {
	rec, err := s.loadDevice()
	return rec.UserID, err
}

// SaveUserID records the user id.
func (s *FileStore) SaveUserID(userID string) error {
	return s.updateDevice(func(rec *deviceRecord) { rec.UserID = userID })
}

// LoadPickledAccount returns the account pickle, or nil if none.
func (s *FileStore) LoadPickledAccount() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readSlot(filepath.Join(s.dir, accountFile))
}

// SavePickledAccount overwrites the account pickle. An empty blob clears it.
func (s *FileStore) SavePickledAccount(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountFile)
	if len(blob) == 0 {
		return removeFile(path)
	}
	return writeSlot(path, blob)
}

// LoadPickleKey opens the sealed pickle key, or returns nil if none.
func (s *FileStore) LoadPickleKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readSlot(filepath.Join(s.dir, pickleKeyFile))
	if err != nil || b == nil {
		return nil, err
	}
	if s.passphrase == "" {
		return nil, errNoPassphrase
	}
	return decrypt(s.passphrase, b)
}

// SavePickleKey seals and stores the pickle key. An empty key clears it.
func (s *FileStore) SavePickleKey(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, pickleKeyFile)
	if len(key) == 0 {
		return removeFile(path)
	}
	if s.passphrase == "" {
		return errNoPassphrase
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(s.passphrase, key, N, r, p)
	if err != nil {
		return err
	}
	return writeSlot(path, ct)
}

func (s *FileStore) loadDevice() (deviceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec deviceRecord
	err := readJSON(filepath.Join(s.dir, deviceFile), &rec)
	return rec, err
}

func (s *FileStore) updateDevice(mutate func(*deviceRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, deviceFile)
	var rec deviceRecord
	if err := readJSON(path, &rec); err != nil {
		return err
	}
	mutate(&rec)
	return writeJSON(path, rec)
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Compile-time assertion that FileStore implements domain.KeyStore.
var _ domain.KeyStore = (*FileStore)(nil)
