package dedupe

import (
	"context"
	"fmt"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core/common"
	"github.com/mosdac-ai/orbit/internal/core/model"
	"github.com/mosdac-ai/orbit/internal/llm"
)

const defaultDedupePrompt = `<NEW NODES>
%s</NEW NODES>

<EXISTING NODES>
%s</EXISTING NODES>

Identify which of the NEW NODES refer to the same real-world entity as one of
the EXISTING NODES. Satellite missions are often written several ways
(e.g. "INSAT-3D", "INSAT 3D", "Insat-3D mission").

Return a JSON object:
{"duplicates": [{"original_uuid": "<existing uuid>", "duplicate_uuid": "<new uuid>", "confidence": 0.9}]}
Return ONLY the JSON object.`

type Deduplicator struct {
	LLM     llm.LLMClient
	Prompts config.DeduplicationPrompts
}

func NewDeduplicator(llmClient llm.LLMClient, prompts config.DeduplicationPrompts) *Deduplicator {
	return &Deduplicator{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ResolveDuplicates asks the model which new nodes are restatements of
// existing ones, so the graph converges instead of accumulating aliases.
func (d *Deduplicator) ResolveDuplicates(ctx context.Context, newNodes, existingNodes []model.EntityNode) ([]model.DuplicatePair, error) {
	if len(newNodes) == 0 || len(existingNodes) == 0 {
		return nil, nil
	}

	tmpl := d.Prompts.Nodes
	if tmpl == "" {
		tmpl = defaultDedupePrompt
	}
	prompt := fmt.Sprintf(tmpl, serializeNodes(newNodes), serializeNodes(existingNodes))

	response, err := d.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate deduplication result: %w", err)
	}

	result, err := common.ParseJSON[model.DeduplicationResult](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dedupe result: %w", err)
	}

	return result.Duplicates, nil
}

func serializeNodes(nodes []model.EntityNode) string {
	var s string
	for _, n := range nodes {
		s += fmt.Sprintf("- UUID: %s, Name: %s\n", n.UUID, n.Name)
	}
	return s
}
