package matrix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetRoomStateEvent fetches a state event's content from a room.
// A missing event is returned as an *Error with code M_NOT_FOUND.
func (c *Client) GetRoomStateEvent(ctx context.Context, roomID, eventType, stateKey string) (json.RawMessage, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID),
		url.PathEscape(eventType),
		url.PathEscape(stateKey),
	)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: get state event %s/%s in %q failed: %w", eventType, stateKey, roomID, err)
	}
	return json.RawMessage(body), nil
}
