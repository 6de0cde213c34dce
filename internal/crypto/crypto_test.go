package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyward/internal/crypto"
)

func TestCanonicalJSON_SortsKeysAndSkipsEscaping(t *testing.T) {
	in := struct {
		Zeta  string         `json:"zeta"`
		Alpha map[string]int `json:"alpha"`
		HTML  string         `json:"html"`
	}{
		Zeta:  "z",
		Alpha: map[string]int{"b": 2, "a": 1},
		HTML:  "<&>",
	}
	out, err := crypto.CanonicalJSON(in)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":1,"b":2},"html":"<&>","zeta":"z"}`, string(out))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	secret := []byte("pickle-key")
	salt, nonce, ct, err := crypto.Seal(secret, []byte("account state"))
	require.NoError(t, err)

	pt, err := crypto.Open(secret, salt, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, "account state", string(pt))
}

func TestSeal_FreshOutputEachCall(t *testing.T) {
	secret := []byte("pickle-key")
	_, _, first, err := crypto.Seal(secret, []byte("same"))
	require.NoError(t, err)
	_, _, second, err := crypto.Seal(secret, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestOpen_WrongSecretFails(t *testing.T) {
	salt, nonce, ct, err := crypto.Seal([]byte("right"), []byte("x"))
	require.NoError(t, err)

	_, err = crypto.Open([]byte("wrong"), salt, nonce, ct)
	assert.ErrorIs(t, err, crypto.ErrOpen)
}

func TestSignVerify(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	sig := crypto.SignEd25519(priv, []byte("msg"))
	assert.True(t, crypto.VerifyEd25519(pub, []byte("msg"), sig))
	assert.False(t, crypto.VerifyEd25519(pub, []byte("other"), sig))
}

func TestGenerateX25519_PublicMatchesPrivate(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	again, err := crypto.X25519Public(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, again)
}

func TestDecodeB64_AcceptsBothPaddings(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	got, err := crypto.DecodeB64(crypto.B64(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = crypto.DecodeB64("AQIDBA==")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestFingerprint_GroupedAndStable(t *testing.T) {
	key := []byte("some public key")
	fp := crypto.Fingerprint(key)

	assert.Equal(t, fp, crypto.Fingerprint(key))
	assert.NotEqual(t, fp, crypto.Fingerprint([]byte("another key")))
	assert.Len(t, strings.Fields(fp), 5)
	assert.Len(t, strings.ReplaceAll(fp, " ", ""), 20)
}
