package extraction

import (
	"context"
	"fmt"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core/common"
	"github.com/mosdac-ai/orbit/internal/core/model"
	"github.com/mosdac-ai/orbit/internal/llm"
)

const defaultNodesPrompt = `You are extracting entities from satellite mission and earth observation data.
Identify the distinct entities mentioned in the content below: missions, satellites, sensors,
data products, agencies, orbits, documents, locations.

Content:
%s

Return a JSON object:
{"extracted_entities": [{"name": "INSAT-3D"}, {"name": "ISRO"}]}
Return ONLY the JSON object.`

const defaultEdgesPrompt = `You are extracting factual relationships between known entities.

Entities (refer to them by UUID):
%s

Content:
%s

Return a JSON object:
{"extracted_edges": [{"source_node_uuid": "...", "target_node_uuid": "...", "relation_type": "CARRIES_SENSOR", "fact": "INSAT-3D carries an imager sensor"}]}
Use SCREAMING_SNAKE_CASE relation types. The fact must be a complete sentence.
Return ONLY the JSON object.`

type Extractor struct {
	LLM     llm.LLMClient
	Prompts config.ExtractionPrompts
}

func NewExtractor(llmClient llm.LLMClient, prompts config.ExtractionPrompts) *Extractor {
	return &Extractor{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ExtractEntities pulls entity names out of episode content.
func (e *Extractor) ExtractEntities(ctx context.Context, content string) ([]model.ExtractedEntity, error) {
	tmpl := e.Prompts.Nodes
	if tmpl == "" {
		tmpl = defaultNodesPrompt
	}
	prompt := fmt.Sprintf(tmpl, content)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedEntities](response)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	return result.ExtractedEntities, nil
}

// ExtractEdges pulls facts connecting the given entities out of episode content.
func (e *Extractor) ExtractEdges(ctx context.Context, content string, nodes []model.EntityNode) ([]model.ExtractedEdge, error) {
	if len(nodes) < 2 {
		return nil, nil
	}

	var nodeContext string
	for _, n := range nodes {
		nodeContext += fmt.Sprintf("- UUID: %s, Name: %s\n", n.UUID, n.Name)
	}

	tmpl := e.Prompts.Edges
	if tmpl == "" {
		tmpl = defaultEdgesPrompt
	}
	prompt := fmt.Sprintf(tmpl, nodeContext, content)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("edge extraction failed: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedEdges](response)
	if err != nil {
		return nil, fmt.Errorf("edge extraction failed: %w", err)
	}

	return result.ExtractedEdges, nil
}
