package types

// Signatures maps user id -> "<algorithm>:<device id>" -> base64 signature.
type Signatures map[string]map[string]string

// DeviceKeys is the public device-key payload published once per device.
type DeviceKeys struct {
	UserID     string            `json:"user_id"`
	DeviceID   string            `json:"device_id"`
	Algorithms []string          `json:"algorithms"`
	Keys       map[string]string `json:"keys"`
	Signatures Signatures        `json:"signatures,omitempty"`
}

// Unsigned returns a copy without signatures, the form that gets signed.
func (k DeviceKeys) Unsigned() DeviceKeys {
	k.Signatures = nil
	return k
}
