package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, "drop", cfg.SlowClientPolicy)
	require.Len(t, cfg.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: debug
port: 9090
chat_rate_limit: 3
chat_rate_interval: 2s
slow_client_policy: kick
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: relay
    credential: hunter2
`), 0o600))
	t.Setenv("SHAREROOM_PORT", "9191")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9191, cfg.Port, "env wins over file")
	assert.Equal(t, 3, cfg.ChatRateLimit)
	assert.Equal(t, 2*time.Second, cfg.ChatRateInterval)
	assert.Equal(t, "kick", cfg.SlowClientPolicy)

	servers := cfg.WebRTCICEServers()
	require.Len(t, servers, 1)
	assert.Equal(t, []string{"turn:turn.example.com:3478"}, servers[0].URLs)
	assert.Equal(t, "relay", servers[0].Username)
	assert.Equal(t, "hunter2", servers[0].Credential)
	assert.Equal(t, webrtc.ICECredentialTypePassword, servers[0].CredentialType)
}

func TestLoadFileRejectsPingSlowerThanPong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ping_period: 90s\npong_wait: 60s\n"), 0o600))
	_, err := LoadFile(path)
	assert.Error(t, err)
}
