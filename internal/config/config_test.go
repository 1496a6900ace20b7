package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "default_db", cfg.Neo4j.Database)
	assert.Equal(t, "data", cfg.Loader.DataDir)
	assert.Equal(t, "mosdac", cfg.Loader.GroupID)
	assert.False(t, cfg.Loader.AllowWipe, "wiping must be opt-in")
}

func TestLoad_OverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[neo4j]
uri = "bolt://graph.internal:7687"
database = "mosdac_db"

[llm]
provider = "openai"
model = "gpt-4o-mini"

[loader]
allow_wipe = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "mosdac_db", cfg.Neo4j.Database)
	assert.Equal(t, "neo4j", cfg.Neo4j.User, "unset fields keep their defaults")
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.True(t, cfg.Loader.AllowWipe)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[neo4j\nuri="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv_WinsOverFileValues(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://env-host:7687")
	t.Setenv("NEO4J_PASSWORD", "env-secret")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("MOSDAC_GROUP_ID", "env-group")
	t.Setenv("MOSDAC_ALLOW_WIPE", "true")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "bolt://env-host:7687", cfg.Neo4j.URI)
	assert.Equal(t, "env-secret", cfg.Neo4j.Password)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "env-group", cfg.Loader.GroupID)
	assert.True(t, cfg.Loader.AllowWipe)
}

func TestApplyEnv_IgnoresUnsetAndNonTrueWipe(t *testing.T) {
	t.Setenv("MOSDAC_ALLOW_WIPE", "yes")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.False(t, cfg.Loader.AllowWipe, "only the literal 'true' enables wiping")
}
