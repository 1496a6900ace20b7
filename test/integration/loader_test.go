//go:build integration

package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosdac-ai/orbit/internal/bootstrap"
	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core"
	"github.com/mosdac-ai/orbit/internal/driver"
	"github.com/mosdac-ai/orbit/internal/ingest"
)

// scriptedLLM keeps the round trip deterministic so the test exercises the
// bootstrap and persistence path against a real Neo4j without model access.
type scriptedLLM struct{}

func (scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "extracted_entities"):
		return `{"extracted_entities": [{"name": "INSAT-3D"}, {"name": "ISRO"}]}`, nil
	case strings.Contains(prompt, "extracted_edges"):
		return `{"extracted_edges": []}`, nil
	case strings.Contains(prompt, "duplicates"):
		return `{"duplicates": []}`, nil
	case strings.Contains(prompt, `{"name"`):
		return `{"name": "Test Community"}`, nil
	default:
		return `{"summary": "Integration test summary."}`, nil
	}
}

func TestLoaderAgainstLiveNeo4j(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set; skipping integration test")
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	cfg.Loader.GroupID = "integration_test"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, "")
	require.NoError(t, err)
	defer d.Close(ctx)

	negotiator := bootstrap.NewNegotiator(d, cfg.Neo4j.Database, cfg.Loader.AllowWipe)
	target, err := negotiator.Establish(ctx)
	require.NoError(t, err)
	t.Logf("bootstrap target: database=%q fallback=%v", target.Database, target.UsingFallback)

	var graphDriver driver.GraphDriver = d
	graphDriver, err = bootstrap.EnsureIndices(ctx, graphDriver, func(database string) (driver.GraphDriver, error) {
		return driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, database)
	})
	require.NoError(t, err)

	g := core.NewGraph(graphDriver, scriptedLLM{}, nil, nil, cfg)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/satellites.json",
		[]byte(`[{"name": "INSAT-3D", "agency": "ISRO"}]`), 0o644))

	loader := ingest.NewLoader(g, ingest.NewRouter(dir), cfg.Loader.GroupID)
	summary := loader.LoadAll(ctx)

	require.NoError(t, summary.BootstrapErr)
	assert.Equal(t, 1, summary.Loaded, "only satellites.json is present")
	require.NoError(t, summary.StatsErr)
	assert.Greater(t, summary.Nodes, int64(0))

	facts, err := g.Search(ctx, cfg.Loader.GroupID, "INSAT", 5)
	require.NoError(t, err)
	t.Logf("search returned %d facts", len(facts))
}
