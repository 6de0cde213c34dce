package cryptoclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyward/internal/account"
	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/services/cryptoclient"
	"keyward/internal/store"
)

var testIdentity = domain.DeviceIdentity{UserID: "@bot:example.org", DeviceID: "BOTDEVICE"}

// fakeHomeserver records every call and answers from canned state.
type fakeHomeserver struct {
	mu sync.Mutex

	identity domain.DeviceIdentity
	counts   domain.OneTimeKeyCounts
	state    map[string]json.RawMessage

	whoAmIErr error
	uploadErr error
	countsErr error

	calls         []string
	whoAmICalls   int
	deviceUploads []domain.DeviceKeys
	otkUploads    []domain.SignedOneTimeKeys
	countChecks   int
}

func newFakeHomeserver() *fakeHomeserver {
	return &fakeHomeserver{identity: testIdentity, state: map[string]json.RawMessage{}}
}

func (f *fakeHomeserver) WhoAmI(context.Context) (domain.DeviceIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "whoami")
	f.whoAmICalls++
	if f.whoAmIErr != nil {
		return domain.DeviceIdentity{}, f.whoAmIErr
	}
	return f.identity, nil
}

func (f *fakeHomeserver) UploadDeviceKeys(_ context.Context, keys domain.DeviceKeys) (domain.OneTimeKeyCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "upload device keys")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.deviceUploads = append(f.deviceUploads, keys)
	return domain.OneTimeKeyCounts{}, nil
}

func (f *fakeHomeserver) UploadOneTimeKeys(_ context.Context, keys domain.SignedOneTimeKeys) (domain.OneTimeKeyCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "upload one-time keys")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.otkUploads = append(f.otkUploads, keys)
	return domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: len(keys)}, nil
}

func (f *fakeHomeserver) CheckOneTimeKeyCounts(context.Context) (domain.OneTimeKeyCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "check counts")
	f.countChecks++
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	return f.counts, nil
}

func (f *fakeHomeserver) GetRoomStateEvent(_ context.Context, roomID, eventType, _ string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eventType != domain.EventTypeRoomEncryption {
		return nil, errors.New("unexpected event type")
	}
	content, ok := f.state[roomID]
	if !ok {
		return nil, errors.New("M_NOT_FOUND: event not found")
	}
	return content, nil
}

func (f *fakeHomeserver) lastOTKUpload(t *testing.T) domain.SignedOneTimeKeys {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.otkUploads)
	return f.otkUploads[len(f.otkUploads)-1]
}

// uploadedKeyIDs counts every one-time key id uploaded, failing on repeats.
func (f *fakeHomeserver) uploadedKeyIDs(t *testing.T) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	for _, upload := range f.otkUploads {
		for id := range upload {
			assert.False(t, seen[id], "key id %s uploaded twice", id)
			seen[id] = true
		}
	}
	return len(seen)
}

type fakeTracker struct {
	calls [][]string
	err   error
}

func (f *fakeTracker) Prepare(_ context.Context, roomIDs []string) error {
	f.calls = append(f.calls, roomIDs)
	return f.err
}

// recordingStore keeps every pickled account written to it. A non-nil
// saveErr fails the write.
type recordingStore struct {
	*store.MemoryStore
	saved   [][]byte
	saveErr error
}

func (s *recordingStore) SavePickledAccount(blob []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, append([]byte(nil), blob...))
	return s.MemoryStore.SavePickledAccount(blob)
}

type harness struct {
	hs      *fakeHomeserver
	tracker *fakeTracker
	store   *recordingStore
	client  *cryptoclient.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		hs:      newFakeHomeserver(),
		tracker: &fakeTracker{},
		store:   &recordingStore{MemoryStore: store.NewMemoryStore()},
	}
	h.client = h.newClient(t)
	return h
}

// newClient builds a client over the harness's store, as after a restart.
func (h *harness) newClient(t *testing.T) *cryptoclient.Client {
	t.Helper()
	c, err := cryptoclient.New(cryptoclient.Config{
		Store:      h.store,
		Homeserver: h.hs,
		Accounts:   account.Factory{},
		Rooms:      h.tracker,
	})
	require.NoError(t, err)
	return c
}

func (h *harness) prepare(t *testing.T) {
	t.Helper()
	require.NoError(t, h.client.Prepare(context.Background(), []string{"!room:example.org"}))
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := cryptoclient.New(cryptoclient.Config{})
	assert.Error(t, err)
}

func TestFreshClient_NotReadyUntilPrepared(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.client.IsReady())
	assert.Empty(t, h.client.ClientDeviceID())

	h.prepare(t)

	assert.True(t, h.client.IsReady())
	assert.Equal(t, testIdentity.DeviceID, h.client.ClientDeviceID())
	assert.Equal(t, [][]string{{"!room:example.org"}}, h.tracker.calls)
}

func TestPrepare_FirstRunPublishesEverything(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	assert.Equal(t, []string{"whoami", "upload device keys", "upload one-time keys"}, h.hs.calls)
	assert.Equal(t, 1, h.hs.whoAmICalls)
	require.Len(t, h.hs.deviceUploads, 1)
	assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget)

	deviceID, _ := h.store.LoadDeviceID()
	userID, _ := h.store.LoadUserID()
	blob, _ := h.store.LoadPickledAccount()
	key, _ := h.store.LoadPickleKey()
	assert.Equal(t, testIdentity.DeviceID, deviceID)
	assert.Equal(t, testIdentity.UserID, userID)
	assert.NotEmpty(t, blob)
	assert.NotEmpty(t, key)
}

func TestPrepare_DeviceKeysAreSelfSigned(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	keys := h.hs.deviceUploads[0]
	assert.Equal(t, testIdentity.UserID, keys.UserID)
	assert.Equal(t, testIdentity.DeviceID, keys.DeviceID)
	assert.ElementsMatch(t, []string{domain.AlgorithmOlm, domain.AlgorithmMegolm}, keys.Algorithms)

	edKey := keys.Keys["ed25519:"+testIdentity.DeviceID]
	require.NotEmpty(t, edKey)
	require.NotEmpty(t, keys.Keys["curve25519:"+testIdentity.DeviceID])

	sig := keys.Signatures[testIdentity.UserID]["ed25519:"+testIdentity.DeviceID]
	verifySignature(t, edKey, keys.Unsigned(), sig)
}

func TestPrepare_PersistedDeviceSkipsWhoAmI(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveDeviceID("STORED"))
	require.NoError(t, h.store.SaveUserID("@stored:example.org"))

	h.prepare(t)

	assert.Zero(t, h.hs.whoAmICalls)
	assert.Equal(t, "STORED", h.client.ClientDeviceID())
	identity, err := h.client.Identity()
	require.NoError(t, err)
	assert.Equal(t, "@stored:example.org", identity.UserID)
}

func TestPrepare_PersistedDeviceFallsBackToConfiguredUser(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveDeviceID("STORED"))

	c, err := cryptoclient.New(cryptoclient.Config{
		Store:      h.store,
		Homeserver: h.hs,
		Accounts:   account.Factory{},
		Rooms:      h.tracker,
		UserID:     "@configured:example.org",
	})
	require.NoError(t, err)
	require.NoError(t, c.Prepare(context.Background(), nil))

	assert.Zero(t, h.hs.whoAmICalls)
	identity, err := c.Identity()
	require.NoError(t, err)
	assert.Equal(t, "@configured:example.org", identity.UserID)
}

func TestPrepare_PersistedDeviceWithoutUserFails(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveDeviceID("STORED"))

	assert.Error(t, h.client.Prepare(context.Background(), nil))
	assert.False(t, h.client.IsReady())
	assert.Zero(t, h.hs.whoAmICalls)
}

func TestPrepare_RestartOnlyTopsUp(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	h.hs.counts = domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: 42}
	uploadsBefore := len(h.hs.otkUploads)
	checksBefore := h.hs.countChecks

	h.client = h.newClient(t)
	h.prepare(t)

	assert.Len(t, h.hs.deviceUploads, 1)
	assert.Equal(t, 1, h.hs.whoAmICalls)
	assert.Equal(t, checksBefore+1, h.hs.countChecks)
	require.Len(t, h.hs.otkUploads, uploadsBefore+1)
	assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget-42)
}

func TestPrepare_RestartAtTargetUploadsNothing(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	h.hs.counts = domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: cryptoclient.OneTimeKeyTarget}
	uploadsBefore := len(h.hs.otkUploads)

	h.client = h.newClient(t)
	h.prepare(t)

	assert.Len(t, h.hs.deviceUploads, 1)
	assert.Len(t, h.hs.otkUploads, uploadsBefore)
	assert.True(t, h.client.IsReady())
}

func TestPrepare_RestartKeepsIdentityKeys(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	before, err := h.client.IdentityKeys()
	require.NoError(t, err)

	h.client = h.newClient(t)
	h.prepare(t)
	after, err := h.client.IdentityKeys()
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestPrepare_MissingAccountStateForcesFullBootstrap(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*recordingStore) error
	}{
		{"pickled account", func(s *recordingStore) error { return s.MemoryStore.SavePickledAccount(nil) }},
		{"pickle key", func(s *recordingStore) error { return s.SavePickleKey(nil) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.prepare(t)
			h.hs.counts = domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: cryptoclient.OneTimeKeyTarget}
			before, err := h.client.IdentityKeys()
			require.NoError(t, err)
			require.NoError(t, tc.clear(h.store))

			h.client = h.newClient(t)
			h.prepare(t)

			assert.Equal(t, 1, h.hs.whoAmICalls)
			assert.Len(t, h.hs.deviceUploads, 2)
			assert.Len(t, h.hs.otkUploads, 2)
			assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget)

			after, err := h.client.IdentityKeys()
			require.NoError(t, err)
			assert.NotEqual(t, before, after)

			blob, _ := h.store.LoadPickledAccount()
			key, _ := h.store.LoadPickleKey()
			assert.NotEmpty(t, blob)
			assert.NotEmpty(t, key)
		})
	}
}

func TestPrepare_FailureLeavesClientNotReady(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*harness)
	}{
		{"whoami", func(h *harness) { h.hs.whoAmIErr = errors.New("connection refused") }},
		{"upload", func(h *harness) { h.hs.uploadErr = errors.New("M_LIMIT_EXCEEDED") }},
		{"room tracker", func(h *harness) { h.tracker.err = errors.New("tracker down") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			tc.setup(h)

			err := h.client.Prepare(context.Background(), nil)
			require.Error(t, err)
			var upstreamErr *cryptoclient.UpstreamError
			assert.ErrorAs(t, err, &upstreamErr)
			assert.False(t, h.client.IsReady())
			assert.Empty(t, h.client.ClientDeviceID())
		})
	}
}

func TestPrepare_UploadFailureDoesNotPersistAccount(t *testing.T) {
	h := newHarness(t)
	h.hs.uploadErr = errors.New("M_UNKNOWN")

	require.Error(t, h.client.Prepare(context.Background(), nil))

	blob, _ := h.store.LoadPickledAccount()
	key, _ := h.store.LoadPickleKey()
	assert.Empty(t, blob)
	assert.Empty(t, key)
	assert.Empty(t, h.store.saved)
}

func TestPrepare_RepeatedCallsStayReady(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	h.hs.countsErr = errors.New("timeout")
	require.Error(t, h.client.Prepare(context.Background(), nil))
	assert.True(t, h.client.IsReady())

	h.hs.countsErr = nil
	h.prepare(t)
	assert.True(t, h.client.IsReady())
	assert.Equal(t, testIdentity.DeviceID, h.client.ClientDeviceID())
}

func TestPrepare_FailedRepeatKeepsPublishedAccount(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	before, err := h.client.IdentityKeys()
	require.NoError(t, err)

	h.hs.counts = domain.OneTimeKeyCounts{}
	h.tracker.err = errors.New("tracker down")
	require.Error(t, h.client.Prepare(context.Background(), nil))
	require.Len(t, h.hs.otkUploads, 2)

	h.tracker.err = nil
	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{}))
	assert.Equal(t, 3*cryptoclient.OneTimeKeyTarget, h.hs.uploadedKeyIDs(t))

	after, err := h.client.IdentityKeys()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	h.client = h.newClient(t)
	h.prepare(t)
	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{}))
	assert.Equal(t, 5*cryptoclient.OneTimeKeyTarget, h.hs.uploadedKeyIDs(t))
}

func TestPrepare_RetryAfterFailedSaveKeepsUploadedKeys(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	h.client = h.newClient(t)
	h.hs.counts = domain.OneTimeKeyCounts{}
	h.store.saveErr = errors.New("disk full")
	err := h.client.Prepare(context.Background(), nil)
	var upstreamErr *cryptoclient.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "save pickled account", upstreamErr.Op)
	assert.False(t, h.client.IsReady())
	require.Len(t, h.hs.otkUploads, 2)

	h.store.saveErr = nil
	h.prepare(t)
	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{}))
	assert.Len(t, h.hs.deviceUploads, 1)
	assert.Equal(t, 4*cryptoclient.OneTimeKeyTarget, h.hs.uploadedKeyIDs(t))

	h.client = h.newClient(t)
	h.prepare(t)
	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{}))
	assert.Equal(t, 6*cryptoclient.OneTimeKeyTarget, h.hs.uploadedKeyIDs(t))
}

func TestUpdateCounts_BeforePrepareFails(t *testing.T) {
	h := newHarness(t)

	err := h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{})
	assert.ErrorIs(t, err, cryptoclient.ErrNotInitialized)
	assert.Empty(t, h.hs.otkUploads)
}

func TestUpdateCounts_EmptyCountsUploadsFullTarget(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{}))

	upload := h.hs.lastOTKUpload(t)
	assert.Len(t, upload, cryptoclient.OneTimeKeyTarget)
	for id := range upload {
		assert.True(t, strings.HasPrefix(id, domain.AlgorithmSignedCurve25519+":"), id)
	}
}

func TestUpdateCounts_OnlySignedCountMatters(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{
		domain.AlgorithmSignedCurve25519: 14,
		domain.AlgorithmCurve25519:       5,
	}))

	assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget-14)
}

func TestUpdateCounts_AtOrAboveTargetIsNoOp(t *testing.T) {
	for _, signed := range []int{cryptoclient.OneTimeKeyTarget, cryptoclient.OneTimeKeyTarget + 7} {
		h := newHarness(t)
		h.prepare(t)
		uploads := len(h.hs.otkUploads)
		saves := len(h.store.saved)

		require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{
			domain.AlgorithmSignedCurve25519: signed,
		}))

		assert.Len(t, h.hs.otkUploads, uploads)
		assert.Len(t, h.store.saved, saves)
	}
}

func TestUpdateCounts_NegativeCountTreatedAsZero(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	require.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{
		domain.AlgorithmSignedCurve25519: -20,
	}))

	assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget)
}

func TestUpdateCounts_RepeatedCallsChangePersistedAccount(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	counts := domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: 14}
	start := len(h.store.saved)

	for range 4 {
		require.NoError(t, h.client.UpdateCounts(context.Background(), counts))
		assert.Len(t, h.hs.lastOTKUpload(t), cryptoclient.OneTimeKeyTarget-14)
	}

	saved := h.store.saved[start:]
	require.Len(t, saved, 4)
	for i := 1; i < len(saved); i++ {
		assert.NotEqual(t, saved[i-1], saved[i], "blob %d equals blob %d", i, i-1)
	}
}

func TestUpdateCounts_KeyIDsNeverRepeat(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{
				domain.AlgorithmSignedCurve25519: 40,
			}))
		}()
	}
	wg.Wait()

	assert.Equal(t, cryptoclient.OneTimeKeyTarget+5*10, h.hs.uploadedKeyIDs(t))
}

func TestUpdateCounts_UploadFailureSkipsPersist(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	saves := len(h.store.saved)
	blobBefore, _ := h.store.LoadPickledAccount()
	h.hs.uploadErr = errors.New("M_UNKNOWN")

	err := h.client.UpdateCounts(context.Background(), domain.OneTimeKeyCounts{})
	var upstreamErr *cryptoclient.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "upload one-time keys", upstreamErr.Op)

	assert.Len(t, h.store.saved, saves)
	blobAfter, _ := h.store.LoadPickledAccount()
	assert.Equal(t, blobBefore, blobAfter)
}

func TestUpdateCounts_OneTimeKeysAreSigned(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	ik, err := h.client.IdentityKeys()
	require.NoError(t, err)

	for _, signed := range h.hs.lastOTKUpload(t) {
		sig := signed.Signatures[testIdentity.UserID]["ed25519:"+testIdentity.DeviceID]
		verifySignature(t, ik.Ed25519, map[string]string{"key": signed.Key}, sig)
	}
}

func TestTopUp_UsesServerCounts(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	h.hs.counts = domain.OneTimeKeyCounts{domain.AlgorithmSignedCurve25519: 45}

	counts, err := h.client.TopUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, counts.Signed())
	assert.Len(t, h.hs.lastOTKUpload(t), 5)
}

func TestIsRoomEncrypted_BeforePrepareFails(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.IsRoomEncrypted(context.Background(), "!room:example.org")
	require.Error(t, err)
	assert.Equal(t, "End-to-end encryption has not initialized", err.Error())
}

func TestIsRoomEncrypted(t *testing.T) {
	h := newHarness(t)
	h.hs.state["!megolm:example.org"] = json.RawMessage(`{"algorithm":"m.megolm.v1.aes-sha2"}`)
	h.hs.state["!empty:example.org"] = json.RawMessage(`{}`)
	h.prepare(t)

	tests := []struct {
		roomID string
		want   bool
	}{
		{"!megolm:example.org", true},
		{"!empty:example.org", true},
		{"!plain:example.org", false},
	}
	for _, tc := range tests {
		got, err := h.client.IsRoomEncrypted(context.Background(), tc.roomID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.roomID)
	}
}

func TestGatedAccessorsBeforePrepare(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Identity()
	assert.ErrorIs(t, err, cryptoclient.ErrNotInitialized)
	_, err = h.client.Fingerprint()
	assert.ErrorIs(t, err, cryptoclient.ErrNotInitialized)
	_, err = h.client.Sign(map[string]string{"a": "b"})
	assert.ErrorIs(t, err, cryptoclient.ErrNotInitialized)
	_, err = h.client.TopUp(context.Background())
	assert.ErrorIs(t, err, cryptoclient.ErrNotInitialized)
}

func TestSignAndFingerprint(t *testing.T) {
	h := newHarness(t)
	h.prepare(t)
	ik, err := h.client.IdentityKeys()
	require.NoError(t, err)

	payload := map[string]any{"body": "hello", "n": 1}
	sigs, err := h.client.Sign(payload)
	require.NoError(t, err)
	verifySignature(t, ik.Ed25519, payload, sigs[testIdentity.UserID]["ed25519:"+testIdentity.DeviceID])

	fp, err := h.client.Fingerprint()
	require.NoError(t, err)
	assert.NotEmpty(t, fp.String())
}

func verifySignature(t *testing.T, edKey string, payload any, sig string) {
	t.Helper()
	pub, err := crypto.DecodeB64(edKey)
	require.NoError(t, err)
	raw, err := crypto.DecodeB64(sig)
	require.NoError(t, err)
	msg, err := crypto.CanonicalJSON(payload)
	require.NoError(t, err)
	assert.True(t, crypto.VerifyEd25519(pub, msg, raw), "signature does not verify")
}
