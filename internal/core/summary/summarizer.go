package summary

import (
	"context"
	"fmt"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core/common"
	"github.com/mosdac-ai/orbit/internal/core/model"
	"github.com/mosdac-ai/orbit/internal/llm"
)

const defaultNodeSummaryPrompt = `Current summary of the entity (may be empty):
%s

New facts mentioning the entity:
%s

Write an updated two-sentence summary of the entity incorporating the new facts.
Return a JSON object: {"summary": "..."}
Return ONLY the JSON object.`

const defaultCommunityPrompt = `Entity summaries in a cluster of related satellite-data entities:
%s

Write a short paragraph describing what this cluster covers.
Return a JSON object: {"summary": "..."}
Return ONLY the JSON object.`

const defaultCommunityNamePrompt = `Cluster description:
%s

Give this cluster a short descriptive name (at most five words).
Return a JSON object: {"name": "..."}
Return ONLY the JSON object.`

type Summarizer struct {
	LLM     llm.LLMClient
	Prompts config.SummaryPrompts
}

func NewSummarizer(llmClient llm.LLMClient, prompts config.SummaryPrompts) *Summarizer {
	return &Summarizer{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// SummarizeNode folds newly extracted facts into an entity's running summary.
func (s *Summarizer) SummarizeNode(ctx context.Context, node model.EntityNode, newFacts []string) (string, error) {
	if len(newFacts) == 0 {
		return node.Summary, nil
	}

	factList := ""
	for _, f := range newFacts {
		factList += fmt.Sprintf("- %s\n", f)
	}

	tmpl := s.Prompts.Nodes
	if tmpl == "" {
		tmpl = defaultNodeSummaryPrompt
	}
	prompt := fmt.Sprintf(tmpl, node.Summary, factList)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	result, err := common.ParseJSON[model.EntitySummary](response)
	if err != nil {
		return "", fmt.Errorf("failed to parse summary result: %w", err)
	}

	return result.Summary, nil
}

// SummarizeCommunity reduces a cluster of entity summaries to one description.
// Large clusters are chunked and the intermediate summaries reduced again.
func (s *Summarizer) SummarizeCommunity(ctx context.Context, nodes []model.EntityNode) (string, error) {
	const chunkSize = 20

	if len(nodes) <= chunkSize {
		summaries := ""
		for _, n := range nodes {
			if n.Summary != "" {
				summaries += fmt.Sprintf("- %s: %s\n", n.Name, n.Summary)
			} else {
				summaries += fmt.Sprintf("- %s\n", n.Name)
			}
		}
		if summaries == "" {
			return "No significant information.", nil
		}

		tmpl := s.Prompts.Communities
		if tmpl == "" {
			tmpl = defaultCommunityPrompt
		}
		response, err := s.LLM.Generate(ctx, fmt.Sprintf(tmpl, summaries))
		if err != nil {
			return "", fmt.Errorf("failed to generate community summary: %w", err)
		}

		if result, err := common.ParseJSON[model.EntitySummary](response); err == nil {
			return result.Summary, nil
		}
		return response, nil
	}

	var intermediate []model.EntityNode
	for i := 0; i < len(nodes); i += chunkSize {
		end := i + chunkSize
		if end > len(nodes) {
			end = len(nodes)
		}
		part, err := s.SummarizeCommunity(ctx, nodes[i:end])
		if err != nil {
			continue
		}
		intermediate = append(intermediate, model.EntityNode{
			Name:    fmt.Sprintf("Part %d", len(intermediate)+1),
			Summary: part,
		})
	}

	if len(intermediate) == 0 {
		return "", fmt.Errorf("failed to summarize any chunk")
	}

	return s.SummarizeCommunity(ctx, intermediate)
}

func (s *Summarizer) GenerateCommunityName(ctx context.Context, summary string) (string, error) {
	tmpl := s.Prompts.CommunityName
	if tmpl == "" {
		tmpl = defaultCommunityNamePrompt
	}

	response, err := s.LLM.Generate(ctx, fmt.Sprintf(tmpl, summary))
	if err != nil {
		return "", fmt.Errorf("failed to generate community name: %w", err)
	}

	if result, err := common.ParseJSON[model.CommunityName](response); err == nil {
		return result.Name, nil
	}
	return response, nil
}
