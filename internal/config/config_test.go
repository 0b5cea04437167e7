package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "articles"), cfg.Articles.Dir)
	assert.True(t, cfg.Articles.Watch)
	assert.Equal(t, filepath.Join(dir, "lexiguess.db"), cfg.Store.Path)
	assert.Equal(t, 24*30, cfg.Auth.TTLHours)
}

func TestLoadFullFile(t *testing.T) {
	dir := writeConfig(t, `
server {
    addr ":9191"
}
articles {
    dir "data/jours"
    watch false
}
store {
    path "var/jeu.db"
}
auth {
    secret "tres-secret"
    ttl_hours 48
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "data", "jours"), cfg.Articles.Dir)
	assert.False(t, cfg.Articles.Watch)
	assert.Equal(t, filepath.Join(dir, "var", "jeu.db"), cfg.Store.Path)
	assert.Equal(t, "tres-secret", cfg.Auth.Secret)
	assert.Equal(t, 48, cfg.Auth.TTLHours)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := writeConfig(t, `
server {
    addr "127.0.0.1:3000"
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "articles"), cfg.Articles.Dir)
	assert.True(t, cfg.Articles.Watch)
}

func TestLoadAbsolutePathsUntouched(t *testing.T) {
	dir := writeConfig(t, `
articles {
    dir "/srv/articles"
}
store {
    path ":memory:"
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/articles", cfg.Articles.Dir)
	assert.Equal(t, ":memory:", cfg.Store.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := writeConfig(t, `
auth {
    ttl_hours 0
}
`)
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsBadKDL(t *testing.T) {
	dir := writeConfig(t, `server { addr `)
	_, err := Load(dir)
	assert.Error(t, err)
}
