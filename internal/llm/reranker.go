package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// SimpleLLMReranker orders documents by relevance using a single ranking
// prompt. On any model failure it returns the original order.
type SimpleLLMReranker struct {
	LLM LLMClient
}

func NewSimpleLLMReranker(client LLMClient) *SimpleLLMReranker {
	return &SimpleLLMReranker{LLM: client}
}

func (r *SimpleLLMReranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	docList := ""
	for i, d := range docs {
		docList += fmt.Sprintf("[%d] %s\n", i, truncate(d, 200))
	}

	prompt := fmt.Sprintf(`You are a search relevance optimization system.
Query: %s

Documents:
%s

Rank the documents above based on their relevance to the query.
Output ONLY the indices of the documents in order of relevance, separated by commas.
Example: 0, 2, 1
Do not output any other text.`, query, docList)

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		identity := make([]int, len(docs))
		for i := range identity {
			identity[i] = i
		}
		return identity, nil
	}

	return sanitizeIndices(parseIndices(resp), len(docs)), nil
}

// truncate cuts on rune boundaries so multi-byte text never ends up with a
// broken sequence in the prompt.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func parseIndices(s string) []int {
	re := regexp.MustCompile(`\d+`)
	matches := re.FindAllString(s, -1)
	indices := make([]int, 0, len(matches))
	for _, m := range matches {
		if n, err := strconv.Atoi(m); err == nil {
			indices = append(indices, n)
		}
	}
	return indices
}

// sanitizeIndices drops out-of-range or duplicate indices and appends any the
// model forgot, so the result is always a permutation of 0..n-1.
func sanitizeIndices(indices []int, n int) []int {
	seen := make(map[int]bool, n)
	out := make([]int, 0, n)
	for _, idx := range indices {
		if idx >= 0 && idx < n && !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}
