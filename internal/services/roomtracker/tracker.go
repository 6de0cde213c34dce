package roomtracker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"keyward/internal/domain"
)

// Tracker caches per-room encryption configuration.
type Tracker struct {
	state  domain.RoomStateFetcher
	logger *slog.Logger

	mu      sync.RWMutex
	configs map[string]domain.RoomCryptoConfig
}

// New returns a Tracker reading room state through state.
func New(state domain.RoomStateFetcher, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		state:   state,
		logger:  logger,
		configs: make(map[string]domain.RoomCryptoConfig),
	}
}

// Prepare checks every room in roomIDs in order. It stops early only when
// ctx is done.
func (t *Tracker) Prepare(ctx context.Context, roomIDs []string) error {
	for _, roomID := range roomIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.CheckRoom(ctx, roomID)
	}
	t.logger.Debug("room tracker prepared", "rooms", len(roomIDs))
	return nil
}

// CheckRoom refreshes the cached configuration for roomID.
func (t *Tracker) CheckRoom(ctx context.Context, roomID string) domain.RoomCryptoConfig {
	var config domain.RoomCryptoConfig
	raw, err := t.state.GetRoomStateEvent(ctx, roomID, domain.EventTypeRoomEncryption, "")
	switch {
	case err != nil:
		t.logger.Debug("no encryption state for room", "room_id", roomID, "error", err)
	case json.Unmarshal(raw, &config) != nil:
		t.logger.Warn("unreadable encryption state for room", "room_id", roomID)
		config = domain.RoomCryptoConfig{}
	}

	t.mu.Lock()
	t.configs[roomID] = config
	t.mu.Unlock()
	return config
}

// RoomConfig returns the cached configuration and whether roomID has been checked.
func (t *Tracker) RoomConfig(roomID string) (domain.RoomCryptoConfig, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	config, ok := t.configs[roomID]
	return config, ok
}

// Rooms returns the number of rooms checked so far.
func (t *Tracker) Rooms() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.configs)
}

var _ domain.RoomTracker = (*Tracker)(nil)
