package interfaces

import (
	"context"
	"encoding/json"

	domaintypes "keyward/internal/domain/types"
)

// Homeserver is how the engine talks to the server, all with context.
type Homeserver interface {
	WhoAmI(ctx context.Context) (domaintypes.DeviceIdentity, error)

	UploadDeviceKeys(
		ctx context.Context,
		keys domaintypes.DeviceKeys,
	) (domaintypes.OneTimeKeyCounts, error)
	UploadOneTimeKeys(
		ctx context.Context,
		keys domaintypes.SignedOneTimeKeys,
	) (domaintypes.OneTimeKeyCounts, error)
	CheckOneTimeKeyCounts(ctx context.Context) (domaintypes.OneTimeKeyCounts, error)

	// GetRoomStateEvent returns the raw content of a state event. Absent
	// events are reported as errors.
	GetRoomStateEvent(
		ctx context.Context,
		roomID string,
		eventType string,
		stateKey string,
	) (json.RawMessage, error)
}

// RoomStateFetcher is the subset of Homeserver needed to read room state.
type RoomStateFetcher interface {
	GetRoomStateEvent(
		ctx context.Context,
		roomID string,
		eventType string,
		stateKey string,
	) (json.RawMessage, error)
}
