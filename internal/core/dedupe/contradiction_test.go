package dedupe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core/model"
)

func TestResolveEdgeContradictions(t *testing.T) {
	llmClient := &mockLLM{response: `{"contradicted_edge_uuids": ["e-old"]}`}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{})

	contradicted, err := d.ResolveEdgeContradictions(context.Background(),
		"INSAT-3D was decommissioned in 2025.",
		[]model.EntityEdge{
			{UUID: "e-old", Fact: "INSAT-3D is operational."},
			{UUID: "e-other", Fact: "INSAT-3D carries an imager."},
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"e-old"}, contradicted)

	require.Len(t, llmClient.prompts, 1)
	assert.Contains(t, llmClient.prompts[0], "New Fact: INSAT-3D was decommissioned in 2025.")
	assert.Contains(t, llmClient.prompts[0], "- UUID: e-old, Fact: INSAT-3D is operational.")
}

func TestResolveEdgeContradictions_NoExistingEdges(t *testing.T) {
	llmClient := &mockLLM{}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{})

	contradicted, err := d.ResolveEdgeContradictions(context.Background(), "any fact", nil)

	require.NoError(t, err)
	assert.Nil(t, contradicted)
	assert.Empty(t, llmClient.prompts, "no model call without candidates")
}

func TestResolveEdgeContradictions_NoneFound(t *testing.T) {
	llmClient := &mockLLM{response: `{"contradicted_edge_uuids": []}`}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{})

	contradicted, err := d.ResolveEdgeContradictions(context.Background(),
		"INSAT-3D carries a sounder.",
		[]model.EntityEdge{{UUID: "e1", Fact: "INSAT-3D carries an imager."}},
	)

	require.NoError(t, err)
	assert.Empty(t, contradicted)
}

func TestResolveEdgeContradictions_GenerateFailure(t *testing.T) {
	llmClient := &mockLLM{err: fmt.Errorf("model overloaded")}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{})

	_, err := d.ResolveEdgeContradictions(context.Background(), "fact",
		[]model.EntityEdge{{UUID: "e1", Fact: "other fact"}})

	assert.Error(t, err)
}

func TestResolveEdgeContradictions_UnparseableResponse(t *testing.T) {
	llmClient := &mockLLM{response: "no contradictions here"}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{})

	_, err := d.ResolveEdgeContradictions(context.Background(), "fact",
		[]model.EntityEdge{{UUID: "e1", Fact: "other fact"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse contradiction result")
}

func TestResolveEdgeContradictions_CustomPrompt(t *testing.T) {
	llmClient := &mockLLM{response: `{"contradicted_edge_uuids": []}`}
	d := NewDeduplicator(llmClient, config.DeduplicationPrompts{Edges: "CHECK %s AGAINST %s"})

	_, err := d.ResolveEdgeContradictions(context.Background(), "new",
		[]model.EntityEdge{{UUID: "e1", Fact: "old"}})

	require.NoError(t, err)
	assert.Equal(t, "CHECK new AGAINST - UUID: e1, Fact: old\n", llmClient.prompts[0])
}
