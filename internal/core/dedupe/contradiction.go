package dedupe

import (
	"context"
	"fmt"

	"github.com/mosdac-ai/orbit/internal/core/common"
	"github.com/mosdac-ai/orbit/internal/core/model"
)

const defaultContradictionPrompt = `Does the New Fact contradict any of the Existing Facts?
Be conservative. Only identify contradictions that represent a change in state
or a logical impossibility (e.g. "is operational" vs "was decommissioned",
"orbits at 36,000 km" vs "orbits at 817 km").
New Fact: %s

Existing Facts:
%s

Return a JSON object with a list of UUIDs of the EXISTING facts that are
contradicted by the new fact.
Example: {"contradicted_edge_uuids": ["uuid-1"]}
If none, return an empty list. Return ONLY the JSON object.`

// ResolveEdgeContradictions asks the model which of the active facts between
// an entity pair a new fact supersedes, so the graph can close their validity
// window instead of holding both as current.
func (d *Deduplicator) ResolveEdgeContradictions(ctx context.Context, newFact string, existingEdges []model.EntityEdge) ([]string, error) {
	if len(existingEdges) == 0 {
		return nil, nil
	}

	var existingFacts string
	for _, edge := range existingEdges {
		existingFacts += fmt.Sprintf("- UUID: %s, Fact: %s\n", edge.UUID, edge.Fact)
	}

	tmpl := d.Prompts.Edges
	if tmpl == "" {
		tmpl = defaultContradictionPrompt
	}
	prompt := fmt.Sprintf(tmpl, newFact, existingFacts)

	response, err := d.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate contradiction check: %w", err)
	}

	result, err := common.ParseJSON[model.ContradictionResult](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contradiction result: %w", err)
	}

	return result.ContradictedEdgeUUIDs, nil
}
