package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/valoruf/valoruf/internal/config"
)

func runConfigInit(t *testing.T) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	configInitCmd.SetOut(&buf)
	t.Cleanup(func() { configInitCmd.SetOut(nil) })
	err := configInitCmd.RunE(configInitCmd, nil)
	return buf.String(), err
}

func TestConfigInit_WritesFile(t *testing.T) {
	chtemp(t)
	cfg = &config.Config{}
	cfg.API.Origin = "http://localhost:5000"
	cfg.CMF.Key = "live-secret-key"
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "uf_cache.db"

	out, err := runConfigInit(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config.yaml")

	data, err := os.ReadFile("config.yaml")
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# valoruf configuration."))
	assert.NotContains(t, content, "live-secret-key")
	assert.Contains(t, content, "YOUR_API_KEY_HERE")

	var parsed config.Config
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "http://localhost:5000", parsed.API.Origin)
	assert.Equal(t, "sqlite", parsed.Store.Driver)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	chtemp(t)
	cfg = &config.Config{}

	_, err := runConfigInit(t)
	require.NoError(t, err)

	_, err = runConfigInit(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml already exists")
}
