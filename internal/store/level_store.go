package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"keyward/internal/domain"
)

// one-byte prefixes, one key per slot
var (
	slotDeviceID  = []byte{'D'}
	slotUserID    = []byte{'U'}
	slotAccount   = []byte{'A'}
	slotPickleKey = []byte{'K'}
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentLevelDBVersion = 0x100

// LevelStore persists slots in a leveldb database. The pickle key is
// stored as given; use it where the database directory is already
// protected, or prefer FileStore.
type LevelStore struct {
	mu sync.RWMutex
	db *leveldb.DB
}

// OpenLevelStore opens (creating if needed) the database at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, &ldb_opt.Options{ErrorIfMissing: false})
	if err != nil {
		return nil, fmt.Errorf("store: open leveldb %s: %w", path, err)
	}

	version, err := getVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	// ensure no database downgrade
	if version > currentLevelDBVersion {
		db.Close()
		return nil, fmt.Errorf("store: database version: %d > current version: %d", version, currentLevelDBVersion)
	}
	if version == 0 {
		if err := putVersion(db, currentLevelDBVersion); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &LevelStore{db: db}, nil
}

// Close releases the database.
func (s *LevelStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *LevelStore) LoadDeviceID() (string, error) {
	b, err := s.get(slotDeviceID)
	return string(b), err
}

func (s *LevelStore) SaveDeviceID(deviceID string) error {
	return s.put(slotDeviceID, []byte(deviceID))
}

func (s *LevelStore) LoadUserID() (string, error) {
	b, err := s.get(slotUserID)
	return string(b), err
}

func (s *LevelStore) SaveUserID(userID string) error {
	return s.put(slotUserID, []byte(userID))
}

func (s *LevelStore) LoadPickledAccount() ([]byte, error) { return s.get(slotAccount) }

func (s *LevelStore) SavePickledAccount(blob []byte) error { return s.put(slotAccount, blob) }

func (s *LevelStore) LoadPickleKey() ([]byte, error) { return s.get(slotPickleKey) }

func (s *LevelStore) SavePickleKey(key []byte) error { return s.put(slotPickleKey, key) }

var errClosed = errors.New("store: leveldb store is closed")

func (s *LevelStore) get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errClosed
	}
	v, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// put writes synchronously; an empty value deletes the slot.
func (s *LevelStore) put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return errClosed
	}
	wo := &ldb_opt.WriteOptions{Sync: true}
	if len(value) == 0 {
		return s.db.Delete(key, wo)
	}
	return s.db.Put(key, value, wo)
}

func getVersion(db *leveldb.DB) (int, error) {
	v, err := db.Get(versionKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 4 {
		return 0, fmt.Errorf("store: invalid version record: %x", v)
	}
	return int(binary.BigEndian.Uint32(v)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, uint32(version))
	return db.Put(versionKey, v, &ldb_opt.WriteOptions{Sync: true})
}

var _ domain.KeyStore = (*LevelStore)(nil)
