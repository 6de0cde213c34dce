package cryptoclient

import (
	"context"
	"log/slog"

	"keyward/internal/domain"
)

// IsRoomEncrypted reports whether roomID has an m.room.encryption state
// event. Any failure to fetch it, including a 404, is reported as false.
func (c *Client) IsRoomEncrypted(ctx context.Context, roomID string) (bool, error) {
	if err := c.gate.check(); err != nil {
		return false, err
	}
	if _, err := c.hs.GetRoomStateEvent(ctx, roomID, domain.EventTypeRoomEncryption, ""); err != nil {
		c.logger.Debug("room encryption lookup failed",
			slog.String("room_id", roomID),
			slog.Any("error", err),
		)
		return false, nil
	}
	return true, nil
}
