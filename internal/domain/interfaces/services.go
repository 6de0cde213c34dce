package interfaces

import "context"

// RoomTracker does its own background preparation for the rooms it is handed.
type RoomTracker interface {
	Prepare(ctx context.Context, roomIDs []string) error
}
