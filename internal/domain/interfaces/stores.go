package interfaces

// KeyStore persists the named slots that survive process restarts.
// A missing slot loads as the zero value with a nil error.
type KeyStore interface {
	LoadDeviceID() (string, error)
	SaveDeviceID(deviceID string) error

	LoadUserID() (string, error)
	SaveUserID(userID string) error

	LoadPickledAccount() ([]byte, error)
	SavePickledAccount(blob []byte) error

	LoadPickleKey() ([]byte, error)
	SavePickleKey(key []byte) error
}
