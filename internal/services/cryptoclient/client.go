package cryptoclient

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"keyward/internal/crypto"
	"keyward/internal/domain"
)

// Config wires a Client to its collaborators.
type Config struct {
	Store      domain.KeyStore
	Homeserver domain.Homeserver
	Accounts   domain.AccountFactory
	Rooms      domain.RoomTracker

	// UserID is used when the store holds a device id but no user id.
	UserID string

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// session is the prepared state: who we are and the account that proves it.
type session struct {
	identity  domain.DeviceIdentity
	account   domain.Account
	pickleKey []byte

	// pickleKeyStored is false until pickleKey has been written to the store.
	pickleKeyStored bool
}

// Client is the device's encryption engine.
type Client struct {
	store    domain.KeyStore
	hs       domain.Homeserver
	accounts domain.AccountFactory
	rooms    domain.RoomTracker
	userID   string
	logger   *slog.Logger

	gate     gate
	identity atomic.Pointer[domain.DeviceIdentity]

	// mu serialises every use of sess.account. sess may be set before the
	// gate opens; it always holds the newest published account.
	mu   sync.Mutex
	sess *session
}

// New returns an unprepared Client.
func New(cfg Config) (*Client, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("cryptoclient: Store is required")
	case cfg.Homeserver == nil:
		return nil, errors.New("cryptoclient: Homeserver is required")
	case cfg.Accounts == nil:
		return nil, errors.New("cryptoclient: Accounts is required")
	case cfg.Rooms == nil:
		return nil, errors.New("cryptoclient: Rooms is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		store:    cfg.Store,
		hs:       cfg.Homeserver,
		accounts: cfg.Accounts,
		rooms:    cfg.Rooms,
		userID:   cfg.UserID,
		logger:   logger,
	}, nil
}

// IsReady reports whether Prepare has completed successfully.
func (c *Client) IsReady() bool { return c.gate.isOpen() }

// ClientDeviceID returns the device id, or "" before Prepare succeeds.
func (c *Client) ClientDeviceID() string {
	if id := c.identity.Load(); id != nil {
		return id.DeviceID
	}
	return ""
}

// Identity returns the prepared device identity.
func (c *Client) Identity() (domain.DeviceIdentity, error) {
	if err := c.gate.check(); err != nil {
		return domain.DeviceIdentity{}, err
	}
	return *c.identity.Load(), nil
}

// IdentityKeys returns the account's public identity keys.
func (c *Client) IdentityKeys() (domain.IdentityKeys, error) {
	if err := c.gate.check(); err != nil {
		return domain.IdentityKeys{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.account.IdentityKeys(), nil
}

// Fingerprint returns a short fingerprint of the device's Ed25519 key.
func (c *Client) Fingerprint() (domain.Fingerprint, error) {
	keys, err := c.IdentityKeys()
	if err != nil {
		return "", err
	}
	raw, err := crypto.DecodeB64(keys.Ed25519)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(raw)), nil
}

// Sign signs the canonical JSON form of payload with the device key and
// returns the signatures block to attach to it.
func (c *Client) Sign(payload any) (domain.Signatures, error) {
	if err := c.gate.check(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.signJSON(payload)
}

// signJSON signs v as "ed25519:<device id>" under the session's user id.
func (s *session) signJSON(v any) (domain.Signatures, error) {
	canonical, err := crypto.CanonicalJSON(v)
	if err != nil {
		return nil, err
	}
	return domain.Signatures{
		s.identity.UserID: {
			domain.KeyID(domain.AlgorithmEd25519, s.identity.DeviceID): s.account.Sign(canonical),
		},
	}, nil
}
