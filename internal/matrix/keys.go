package matrix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"keyward/internal/domain"
)

const (
	pathWhoAmI     = "/_matrix/client/v3/account/whoami"
	pathKeysUpload = "/_matrix/client/v3/keys/upload"
)

type whoAmIResponse struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id,omitempty"`
}

type keysUploadRequest struct {
	DeviceKeys  *domain.DeviceKeys       `json:"device_keys,omitempty"`
	OneTimeKeys domain.SignedOneTimeKeys `json:"one_time_keys,omitempty"`
}

type keysUploadResponse struct {
	OneTimeKeyCounts domain.OneTimeKeyCounts `json:"one_time_key_counts"`
}

// WhoAmI returns the user and device the access token belongs to.
func (c *Client) WhoAmI(ctx context.Context) (domain.DeviceIdentity, error) {
	body, err := c.doRequest(ctx, http.MethodGet, pathWhoAmI, nil)
	if err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("matrix: whoami failed: %w", err)
	}
	var response whoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("matrix: failed to parse whoami response: %w", err)
	}
	if response.DeviceID == "" {
		return domain.DeviceIdentity{}, fmt.Errorf("matrix: whoami returned no device_id for %s", response.UserID)
	}
	return domain.DeviceIdentity{UserID: response.UserID, DeviceID: response.DeviceID}, nil
}

// UploadDeviceKeys publishes this device's signed device keys.
func (c *Client) UploadDeviceKeys(ctx context.Context, keys domain.DeviceKeys) (domain.OneTimeKeyCounts, error) {
	counts, err := c.keysUpload(ctx, keysUploadRequest{DeviceKeys: &keys})
	if err != nil {
		return nil, fmt.Errorf("matrix: device key upload failed: %w", err)
	}
	c.logger.Info("uploaded device keys", "user_id", keys.UserID, "device_id", keys.DeviceID)
	return counts, nil
}

// UploadOneTimeKeys publishes a batch of signed one-time keys.
func (c *Client) UploadOneTimeKeys(ctx context.Context, keys domain.SignedOneTimeKeys) (domain.OneTimeKeyCounts, error) {
	counts, err := c.keysUpload(ctx, keysUploadRequest{OneTimeKeys: keys})
	if err != nil {
		return nil, fmt.Errorf("matrix: one-time key upload failed: %w", err)
	}
	c.logger.Debug("uploaded one-time keys", "count", len(keys))
	return counts, nil
}

// CheckOneTimeKeyCounts reads the server's one-time key inventory by
// uploading nothing.
func (c *Client) CheckOneTimeKeyCounts(ctx context.Context) (domain.OneTimeKeyCounts, error) {
	counts, err := c.keysUpload(ctx, keysUploadRequest{})
	if err != nil {
		return nil, fmt.Errorf("matrix: one-time key count check failed: %w", err)
	}
	return counts, nil
}

func (c *Client) keysUpload(ctx context.Context, request keysUploadRequest) (domain.OneTimeKeyCounts, error) {
	body, err := c.doRequest(ctx, http.MethodPost, pathKeysUpload, request)
	if err != nil {
		return nil, err
	}
	var response keysUploadResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse keys/upload response: %w", err)
	}
	if response.OneTimeKeyCounts == nil {
		response.OneTimeKeyCounts = domain.OneTimeKeyCounts{}
	}
	return response.OneTimeKeyCounts, nil
}
