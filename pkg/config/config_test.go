package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("botToken", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("enviroment", "test")
	t.Setenv("configFile", filepath.Join(t.TempDir(), "missing.yaml"))

	resetForTesting()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", config.BotToken)
	assert.Equal(t, "3001", config.Port)
	assert.Equal(t, "test", config.Environment)
	require.NotNil(t, config.File)
	assert.Equal(t, DefaultPrefix, config.File.GlobalPrefix)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	t.Setenv("enviroment", "prod")
	config, _ := Load()
	assert.True(t, config.IsProd())

	resetForTesting()
	t.Setenv("enviroment", "dev")
	config, _ = Load()
	assert.False(t, config.IsProd())
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	require.NotNil(t, config)
	assert.Same(t, config, Get())
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{"botToken", "devGuildId", "mongodbUrl", "dbName", "MQTT_Host", "MQTT_Port", "PORT", "enviroment"} {
		os.Unsetenv(key)
	}
	t.Setenv("configFile", filepath.Join(t.TempDir(), "missing.yaml"))

	resetForTesting()
	config, _ := Load()

	assert.Equal(t, "mongodb://localhost:27017", config.MongoDBURL)
	assert.Equal(t, "MaBot", config.DBName)
	assert.Equal(t, "localhost", config.MQTTHost)
	assert.Equal(t, "1883", config.MQTTPort)
	assert.Equal(t, "3000", config.Port)
	assert.Equal(t, "dev", config.Environment)
}

func TestDevUsers(t *testing.T) {
	t.Setenv("devUserIds", " 1, 2 ,,3")
	resetForTesting()
	config, _ := Load()

	assert.Equal(t, []string{"1", "2", "3"}, config.DevUserIDs)
	assert.True(t, config.IsDevUser("2"))
	assert.False(t, config.IsDevUser("4"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
globalPrefix: "mb?"
version: "3.1.0"
embeds:
  colors:
    main: "#112233"
    error: "ff0000"
  errorImg: "img/err.png"
prefixCacheTTL: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "mb?", f.GlobalPrefix)
	assert.Equal(t, "3.1.0", f.Version)
	assert.Equal(t, 30*time.Second, f.PrefixCacheTTL)
	assert.Equal(t, 15*time.Second, f.CollectorTimeout)
	assert.Equal(t, 0x112233, f.Embeds.Colors.Color("main"))
	assert.Equal(t, 0xff0000, f.Embeds.Colors.Color("error"))
	assert.Equal(t, 0x57F287, f.Embeds.Colors.Color("success"))
	assert.Equal(t, "img/err.png", f.Embeds.ErrorImg)
}

func TestLoadFileRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embeds:\n  colors:\n    main: \"#zzz\"\n"), 0o644))

	f, err := LoadFile(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultPrefix, f.GlobalPrefix)
}

func TestLoadFileMissing(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), f)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"#5865F2", 0x5865F2, true},
		{"ffffff", 0xffffff, true},
		{"#fff", 0xffffff, true},
		{"#ffff", 0, false},
		{"#gggggg", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
