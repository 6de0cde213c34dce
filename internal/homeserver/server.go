package homeserver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"keyward/internal/domain"
)

type device struct {
	userID      string
	deviceID    string
	deviceKeys  *domain.DeviceKeys
	oneTimeKeys map[string]domain.SignedKey // "<alg>:<id>" -> key
}

type failure struct {
	status int
	code   string
}

// Server holds homeserver state in memory. All methods are safe for
// concurrent use.
type Server struct {
	mu       sync.Mutex
	tokens   map[string]*device           // access token -> device
	rooms    map[string]map[string][]byte // room id -> "<type>\x00<state key>" -> content
	failures []failure
	logger   *slog.Logger
	events   int
}

// New returns an empty Server. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tokens: make(map[string]*device),
		rooms:  make(map[string]map[string][]byte),
		logger: logger,
	}
}

// AddDevice registers an access token for userID/deviceID.
func (s *Server) AddDevice(accessToken, userID, deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[accessToken] = &device{
		userID:      userID,
		deviceID:    deviceID,
		oneTimeKeys: make(map[string]domain.SignedKey),
	}
}

// SetRoomState stores content as the state event (eventType, stateKey) in roomID.
func (s *Server) SetRoomState(roomID, eventType, stateKey string, content any) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("homeserver: encode state content: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setRoomStateLocked(roomID, eventType, stateKey, raw)
	return nil
}

// CreateRoom makes roomID known without any state.
func (s *Server) CreateRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[roomID]; !ok {
		s.rooms[roomID] = make(map[string][]byte)
	}
}

// FailNext makes the next n authenticated requests fail with status and errcode.
func (s *Server) FailNext(n, status int, errcode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.failures = append(s.failures, failure{status: status, code: errcode})
	}
}

// OneTimeKeyCounts returns the unclaimed key counts for the token's device.
func (s *Server) OneTimeKeyCounts(accessToken string) domain.OneTimeKeyCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.tokens[accessToken]
	if !ok {
		return domain.OneTimeKeyCounts{}
	}
	return d.counts()
}

// DeviceKeys returns the device keys last uploaded for the token's device.
func (s *Server) DeviceKeys(accessToken string) (domain.DeviceKeys, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.tokens[accessToken]
	if !ok || d.deviceKeys == nil {
		return domain.DeviceKeys{}, false
	}
	return *d.deviceKeys, true
}

// ClaimOneTimeKey removes and returns one key of algorithm from the token's
// device, lowest key id first, as a peer starting a session would. Key ids
// that decode as base64 big-endian counters are ordered numerically and
// come before any that do not.
func (s *Server) ClaimOneTimeKey(accessToken, algorithm string) (string, domain.SignedKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.tokens[accessToken]
	if !ok {
		return "", domain.SignedKey{}, false
	}
	ids := make([]string, 0, len(d.oneTimeKeys))
	for id := range d.oneTimeKeys {
		if strings.HasPrefix(id, algorithm+":") {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", domain.SignedKey{}, false
	}
	sort.Slice(ids, func(i, j int) bool { return keyIDLess(ids[i], ids[j]) })
	key := d.oneTimeKeys[ids[0]]
	delete(d.oneTimeKeys, ids[0])
	return ids[0], key, true
}

func (s *Server) setRoomStateLocked(roomID, eventType, stateKey string, raw []byte) {
	room, ok := s.rooms[roomID]
	if !ok {
		room = make(map[string][]byte)
		s.rooms[roomID] = room
	}
	room[eventType+"\x00"+stateKey] = raw
	s.events++
}

func (d *device) counts() domain.OneTimeKeyCounts {
	counts := domain.OneTimeKeyCounts{}
	for id := range d.oneTimeKeys {
		algorithm, _, _ := strings.Cut(id, ":")
		counts[algorithm]++
	}
	return counts
}

// keyIDLess orders "<alg>:<id>" by the numeric value of <id>.
func keyIDLess(a, b string) bool {
	na, okA := keyCounter(a)
	nb, okB := keyCounter(b)
	switch {
	case okA && okB:
		return na < nb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

func keyCounter(id string) (uint64, bool) {
	_, raw, _ := strings.Cut(id, ":")
	b, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil || len(b) == 0 || len(b) > 8 {
		return 0, false
	}
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	return n, true
}
