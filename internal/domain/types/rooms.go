package types

// RoomCryptoConfig is the content of an m.room.encryption state event.
// A zero value means the room carries no encryption policy.
type RoomCryptoConfig struct {
	Algorithm          string `json:"algorithm,omitempty"`
	RotationPeriodMs   int64  `json:"rotation_period_ms,omitempty"`
	RotationPeriodMsgs int64  `json:"rotation_period_msgs,omitempty"`
}
