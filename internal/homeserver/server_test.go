package homeserver

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyward/internal/domain"
)

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	s := New(nil)
	s.AddDevice("tok", "@u:example.org", "DEV")
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/_matrix/client/v3/account/whoami", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "M_MISSING_TOKEN")

	rec = do(t, h, http.MethodGet, "/_matrix/client/v3/account/whoami", "nope", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "M_UNKNOWN_TOKEN")

	rec = do(t, h, http.MethodGet, "/_matrix/client/v3/account/whoami", "tok", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"device_id":"DEV"`)
}

func TestClaimOneTimeKey_LowestIDFirst(t *testing.T) {
	s := New(nil)
	s.AddDevice("tok", "@u:example.org", "DEV")
	h := s.Handler()

	body := `{"one_time_keys":{
		"signed_curve25519:AAAAAg":{"key":"k2"},
		"signed_curve25519:AAAAAQ":{"key":"k1"}}}`
	rec := do(t, h, http.MethodPost, "/_matrix/client/v3/keys/upload", "tok", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	id, key, ok := s.ClaimOneTimeKey("tok", domain.AlgorithmSignedCurve25519)
	require.True(t, ok)
	assert.Equal(t, "signed_curve25519:AAAAAQ", id)
	assert.Equal(t, "k1", key.Key)
	assert.Equal(t, 1, s.OneTimeKeyCounts("tok").Signed())
}

func TestDeviceKeysMustMatchToken(t *testing.T) {
	s := New(nil)
	s.AddDevice("tok", "@u:example.org", "DEV")

	rec := do(t, s.Handler(), http.MethodPost, "/_matrix/client/v3/keys/upload", "tok",
		`{"device_keys":{"user_id":"@u:example.org","device_id":"OTHER","algorithms":[],"keys":{}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, ok := s.DeviceKeys("tok")
	assert.False(t, ok)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := New(nil)
	h := AccessLog(s.Handler(), logger)

	do(t, h, http.MethodGet, "/_matrix/client/v3/account/whoami", "", "")

	line := buf.String()
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/_matrix/client/v3/account/whoami")
	assert.Contains(t, line, "status=401")
}

func TestClaimOneTimeKey_NumericOrderNotLexical(t *testing.T) {
	s := New(nil)
	s.AddDevice("tok", "@u:example.org", "DEV")

	// Counter 208 encodes as "AAAA0A", which sorts before 104 ("AAAAaA") as text.
	body := `{"one_time_keys":{
		"signed_curve25519:AAAA0A":{"key":"k208"},
		"signed_curve25519:AAAAaA":{"key":"k104"}}}`
	rec := do(t, s.Handler(), http.MethodPost, "/_matrix/client/v3/keys/upload", "tok", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	id, key, ok := s.ClaimOneTimeKey("tok", domain.AlgorithmSignedCurve25519)
	require.True(t, ok)
	assert.Equal(t, "signed_curve25519:AAAAaA", id)
	assert.Equal(t, "k104", key.Key)
}

func TestKeyIDLess(t *testing.T) {
	assert.True(t, keyIDLess("signed_curve25519:AAAAAQ", "signed_curve25519:AAAAAg"))
	assert.True(t, keyIDLess("signed_curve25519:AAAAaA", "signed_curve25519:AAAA0A"))
	assert.False(t, keyIDLess("signed_curve25519:AAAA0A", "signed_curve25519:AAAAaA"))
	assert.True(t, keyIDLess("signed_curve25519:AAAAAQ", "signed_curve25519:not-base64!"))
}
