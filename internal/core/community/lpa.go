package community

import (
	"sort"

	"github.com/mosdac-ai/orbit/internal/core/model"
)

// LabelPropagationDetector clusters entities by label propagation. Multiple
// edges between the same pair count as a stronger connection.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{MaxIterations: 20}
}

func (d *LabelPropagationDetector) Detect(nodes []model.EntityNode, edges []model.EntityEdge) ([][]model.EntityNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	adj := make(map[string]map[string]int) // node -> neighbor -> weight
	nodeMap := make(map[string]model.EntityNode)

	for _, n := range nodes {
		nodeMap[n.UUID] = n
		adj[n.UUID] = make(map[string]int)
	}

	for _, e := range edges {
		if _, ok := nodeMap[e.SourceUUID]; !ok {
			continue
		}
		if _, ok := nodeMap[e.TargetUUID]; !ok {
			continue
		}
		adj[e.SourceUUID][e.TargetUUID]++
		adj[e.TargetUUID][e.SourceUUID]++
	}

	// Each node starts in its own community, labelled by its UUID.
	labels := make(map[string]string, len(nodes))
	order := make([]string, len(nodes))
	for i, n := range nodes {
		labels[n.UUID] = n.UUID
		order[i] = n.UUID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0

		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				l := labels[v]
				counts[l] += weight
				if counts[l] > maxCount {
					maxCount = counts[l]
				}
			}

			var candidates []string
			for l, c := range counts {
				if c == maxCount {
					candidates = append(candidates, l)
				}
			}
			// Deterministic tie-break keeps runs reproducible.
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}

		if changed == 0 {
			break
		}
	}

	clusters := make(map[string][]model.EntityNode)
	for uuid, label := range labels {
		clusters[label] = append(clusters[label], nodeMap[uuid])
	}

	var communities [][]model.EntityNode
	for _, cluster := range clusters {
		if len(cluster) >= 2 { // singletons are not communities
			communities = append(communities, cluster)
		}
	}

	return communities, nil
}
