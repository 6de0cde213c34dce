package commands

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyward/internal/app"
	"keyward/internal/domain"
	"keyward/internal/homeserver"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(app.ConfigEnv, "")
	t.Setenv("KEYWARD_PASSPHRASE", "")
	appCtx = nil

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func devServer(t *testing.T) (*homeserver.Server, []string) {
	t.Helper()
	hs := homeserver.New(nil)
	hs.AddDevice("tok", "@bot:example.org", "BOTDEVICE")
	require.NoError(t, hs.SetRoomState("!enc:example.org", domain.EventTypeRoomEncryption, "",
		map[string]string{"algorithm": domain.AlgorithmMegolm}))
	ts := httptest.NewServer(hs.Handler())
	t.Cleanup(ts.Close)
	return hs, []string{
		"--homeserver", ts.URL,
		"--token", "tok",
		"--home", filepath.Join(t.TempDir(), "store"),
		"-p", "pw",
		"--log-level", "error",
	}
}

func TestPrepareThenStatus(t *testing.T) {
	hs, base := devServer(t)

	out, err := runCLI(t, append(base, "prepare", "!enc:example.org", "!plain:example.org")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Device: BOTDEVICE")
	assert.Contains(t, out, "Room !enc:example.org: "+domain.AlgorithmMegolm)
	assert.Contains(t, out, "Room !plain:example.org: not encrypted")
	assert.Equal(t, 50, hs.OneTimeKeyCounts("tok").Signed())

	out, err = runCLI(t, append(base, "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Device:  BOTDEVICE")
	assert.Contains(t, out, "Account: stored")
	assert.Contains(t, out, "50 signed")
}

func TestOTKUpdate(t *testing.T) {
	hs, base := devServer(t)

	_, err := runCLI(t, append(base, "otk", "update", "--signed", "40", "--unsigned", "3")...)
	require.NoError(t, err)
	// 50 from prepare, 10 more from the update.
	assert.Equal(t, 60, hs.OneTimeKeyCounts("tok").Signed())
}

func TestRoomEncrypted(t *testing.T) {
	_, base := devServer(t)

	out, err := runCLI(t, append(base, "room", "encrypted", "!enc:example.org")...)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = runCLI(t, append(base, "room", "encrypted", "!nope:example.org")...)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestMissingHomeserverFails(t *testing.T) {
	_, err := runCLI(t, "--store", "memory", "status")
	assert.Error(t, err)
}
