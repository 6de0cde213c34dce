package cryptoclient

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"

	"keyward/internal/domain"
)

const pickleKeySize = 32

type bootstrapPlan int

const (
	// planTopUp resumes the stored account and replenishes one-time keys.
	planTopUp bootstrapPlan = iota
	// planFullBootstrap creates a new account and publishes everything.
	planFullBootstrap
	// planRefresh keeps the account already held in memory, which has
	// published keys the stored pickle may not know about yet.
	planRefresh
)

func (p bootstrapPlan) String() string {
	switch p {
	case planFullBootstrap:
		return "full-bootstrap"
	case planRefresh:
		return "refresh"
	default:
		return "top-up"
	}
}

// bootstrapInputs are the facts that pick a plan. A live session for the
// same device wins; otherwise any one of the remaining facts forces a full
// bootstrap.
type bootstrapInputs struct {
	liveSession      bool
	freshDevice      bool
	missingPickle    bool
	missingPickleKey bool
}

func (in bootstrapInputs) plan() bootstrapPlan {
	switch {
	case in.liveSession:
		return planRefresh
	case in.freshDevice || in.missingPickle || in.missingPickleKey:
		return planFullBootstrap
	default:
		return planTopUp
	}
}

// Prepare establishes the device identity, loads or creates the account,
// publishes keys as needed, prepares the room tracker with roomIDs and
// opens the readiness gate. It may be called again; a repeat call keeps
// the account already in memory, tops it up and never closes the gate.
//
// Any collaborator failure aborts Prepare and is returned as an
// *UpstreamError. A failed first Prepare leaves the Client not ready.
func (c *Client) Prepare(ctx context.Context, roomIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, fresh, err := c.resolveIdentity(ctx)
	if err != nil {
		return err
	}

	pickled, err := c.store.LoadPickledAccount()
	if err != nil {
		return upstream("load pickled account", err)
	}
	pickleKey, err := c.store.LoadPickleKey()
	if err != nil {
		return upstream("load pickle key", err)
	}

	live := c.sess
	if live != nil && live.identity != identity {
		live = nil
	}
	inputs := bootstrapInputs{
		liveSession:      live != nil,
		freshDevice:      fresh,
		missingPickle:    len(pickled) == 0,
		missingPickleKey: len(pickleKey) == 0,
	}
	plan := inputs.plan()
	log := c.logger.With(
		slog.String("user_id", identity.UserID),
		slog.String("device_id", identity.DeviceID),
		slog.String("plan", plan.String()),
	)
	log.Info("preparing end-to-end encryption")

	var sess *session
	switch plan {
	case planRefresh:
		sess, err = c.refresh(ctx, live, inputs)
	case planFullBootstrap:
		sess, err = c.fullBootstrap(ctx, identity)
	default:
		sess, err = c.resume(ctx, identity, domain.AccountState{
			PickledAccount: pickled,
			PickleKey:      pickleKey,
		})
	}
	if err != nil {
		log.Warn("end-to-end encryption bootstrap failed", slog.Any("error", err))
		return err
	}

	if err := c.rooms.Prepare(ctx, roomIDs); err != nil {
		return upstream("prepare room tracker", err)
	}

	c.sess = sess
	c.identity.Store(&identity)
	c.gate.open()
	log.Info("end-to-end encryption ready", slog.Int("rooms", len(roomIDs)))
	return nil
}

// resolveIdentity returns the device identity and whether the device id was
// obtained from the homeserver during this call.
func (c *Client) resolveIdentity(ctx context.Context) (domain.DeviceIdentity, bool, error) {
	deviceID, err := c.store.LoadDeviceID()
	if err != nil {
		return domain.DeviceIdentity{}, false, upstream("load device id", err)
	}

	if deviceID != "" {
		userID, err := c.store.LoadUserID()
		if err != nil {
			return domain.DeviceIdentity{}, false, upstream("load user id", err)
		}
		if userID == "" {
			userID = c.userID
		}
		if userID == "" {
			return domain.DeviceIdentity{}, false, errors.New("cryptoclient: stored device has no user id; set one in config")
		}
		return domain.DeviceIdentity{UserID: userID, DeviceID: deviceID}, false, nil
	}

	who, err := c.hs.WhoAmI(ctx)
	if err != nil {
		return domain.DeviceIdentity{}, false, upstream("whoami", err)
	}
	if err := c.store.SaveDeviceID(who.DeviceID); err != nil {
		return domain.DeviceIdentity{}, false, upstream("save device id", err)
	}
	if err := c.store.SaveUserID(who.UserID); err != nil {
		return domain.DeviceIdentity{}, false, upstream("save user id", err)
	}
	c.logger.Info("learned device id from homeserver",
		slog.String("user_id", who.UserID),
		slog.String("device_id", who.DeviceID),
	)
	return who, true, nil
}

// fullBootstrap creates and publishes a brand new account.
func (c *Client) fullBootstrap(ctx context.Context, identity domain.DeviceIdentity) (*session, error) {
	acct, err := c.accounts.NewAccount()
	if err != nil {
		return nil, upstream("create account", err)
	}
	key := make([]byte, pickleKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, upstream("generate pickle key", err)
	}
	sess := &session{identity: identity, account: acct, pickleKey: key}

	keys, err := sess.deviceKeys()
	if err != nil {
		return nil, upstream("sign device keys", err)
	}
	if _, err := c.hs.UploadDeviceKeys(ctx, keys); err != nil {
		return nil, upstream("upload device keys", err)
	}
	// The server now knows this account; later steps must not lose it.
	c.sess = sess

	// A fresh account has nothing on the server yet.
	if err := c.reconcile(ctx, sess, domain.OneTimeKeyCounts{}); err != nil {
		return nil, err
	}

	if err := c.persist(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// resume unpickles the stored account and tops up its one-time keys.
func (c *Client) resume(ctx context.Context, identity domain.DeviceIdentity, state domain.AccountState) (*session, error) {
	acct, err := c.accounts.Unpickle(state.PickledAccount, state.PickleKey)
	if err != nil {
		return nil, upstream("unpickle account", err)
	}
	sess := &session{
		identity:        identity,
		account:         acct,
		pickleKey:       state.PickleKey,
		pickleKeyStored: true,
	}

	counts, err := c.hs.CheckOneTimeKeyCounts(ctx)
	if err != nil {
		return nil, upstream("check one-time key counts", err)
	}
	if err := c.reconcile(ctx, sess, counts); err != nil {
		return nil, err
	}
	return sess, nil
}

// refresh tops up the in-memory account and rewrites the stored account,
// which may be behind it after an earlier failed save.
func (c *Client) refresh(ctx context.Context, sess *session, in bootstrapInputs) (*session, error) {
	if in.missingPickleKey {
		sess.pickleKeyStored = false
	}
	counts, err := c.hs.CheckOneTimeKeyCounts(ctx)
	if err != nil {
		return nil, upstream("check one-time key counts", err)
	}
	if err := c.reconcile(ctx, sess, counts); err != nil {
		return nil, err
	}
	if err := c.persist(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// deviceKeys builds the signed device-keys object for upload.
func (s *session) deviceKeys() (domain.DeviceKeys, error) {
	ik := s.account.IdentityKeys()
	keys := domain.DeviceKeys{
		UserID:     s.identity.UserID,
		DeviceID:   s.identity.DeviceID,
		Algorithms: []string{domain.AlgorithmOlm, domain.AlgorithmMegolm},
		Keys: map[string]string{
			domain.KeyID(domain.AlgorithmCurve25519, s.identity.DeviceID): ik.Curve25519,
			domain.KeyID(domain.AlgorithmEd25519, s.identity.DeviceID):    ik.Ed25519,
		},
	}
	sigs, err := s.signJSON(keys.Unsigned())
	if err != nil {
		return domain.DeviceKeys{}, err
	}
	keys.Signatures = sigs
	return keys, nil
}
