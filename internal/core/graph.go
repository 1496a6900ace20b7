package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mosdac-ai/orbit/internal/config"
	"github.com/mosdac-ai/orbit/internal/core/community"
	"github.com/mosdac-ai/orbit/internal/core/dedupe"
	"github.com/mosdac-ai/orbit/internal/core/extraction"
	"github.com/mosdac-ai/orbit/internal/core/model"
	"github.com/mosdac-ai/orbit/internal/core/summary"
	"github.com/mosdac-ai/orbit/internal/driver"
	"github.com/mosdac-ai/orbit/internal/llm"
)

// Graph is the knowledge graph engine. Episodes go in; entities, facts and
// their temporal bookkeeping come out the other side into the backend.
type Graph struct {
	Driver       driver.GraphDriver
	LLM          llm.LLMClient
	Embedder     llm.EmbedderClient
	Reranker     llm.RerankerClient
	Extractor    *extraction.Extractor
	Deduplicator *dedupe.Deduplicator
	Summarizer   *summary.Summarizer
	Detector     community.CommunityDetector

	// UUIDGenerator is swappable so tests can predict identities.
	UUIDGenerator func() string
}

func NewGraph(d driver.GraphDriver, llmClient llm.LLMClient, embedder llm.EmbedderClient, reranker llm.RerankerClient, cfg *config.Config) *Graph {
	return &Graph{
		Driver:        d,
		LLM:           llmClient,
		Embedder:      embedder,
		Reranker:      reranker,
		Extractor:     extraction.NewExtractor(llmClient, cfg.Extraction),
		Deduplicator:  dedupe.NewDeduplicator(llmClient, cfg.Deduplication),
		Summarizer:    summary.NewSummarizer(llmClient, cfg.Summary),
		Detector:      community.NewDetector(),
		UUIDGenerator: func() string { return uuid.New().String() },
	}
}

func (g *Graph) BuildIndices(ctx context.Context) error {
	return g.Driver.BuildIndices(ctx)
}

func (g *Graph) Close(ctx context.Context) error {
	return g.Driver.Close(ctx)
}

// AddEpisode writes one episode and runs the extraction pipeline:
// episodic node -> entities -> dedupe against the group -> MENTIONS edges ->
// fact edges -> entity summary refresh.
func (g *Graph) AddEpisode(ctx context.Context, ep model.Episode) error {
	if ep.Source == "" {
		ep.Source = model.SourceMessage
	}
	refTime := ep.ReferenceTime
	if refTime.IsZero() {
		refTime = time.Now().UTC()
	}

	epUUID := g.UUIDGenerator()
	now := time.Now().UTC()

	epParams := map[string]interface{}{
		"uuid":               epUUID,
		"name":               ep.Name,
		"group_id":           ep.GroupID,
		"created_at":         now,
		"valid_at":           refTime,
		"content":            ep.Body,
		"source":             ep.Source,
		"source_description": ep.SourceDescription,
	}
	if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveEpisodicNodeQuery, epParams); err != nil {
		return fmt.Errorf("failed to save episode: %w", err)
	}

	extracted, err := g.Extractor.ExtractEntities(ctx, ep.Body)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var newNodes []model.EntityNode
	for _, e := range extracted {
		if e.Name == "" {
			continue
		}
		newNodes = append(newNodes, model.EntityNode{
			UUID:      g.UUIDGenerator(),
			Name:      e.Name,
			GroupID:   ep.GroupID,
			CreatedAt: now,
		})
	}

	existing, err := g.getGroupNodes(ctx, ep.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load group nodes: %w", err)
	}

	// Collapse extracted nodes onto existing ones so repeated loads converge
	// on one node per real-world entity.
	if len(newNodes) > 0 && len(existing) > 0 {
		pairs, err := g.Deduplicator.ResolveDuplicates(ctx, newNodes, existing)
		if err != nil {
			log.Printf("Warning: deduplication failed, keeping all extracted nodes: %v", err)
		} else {
			resolved := make(map[string]string, len(pairs))
			for _, p := range pairs {
				resolved[p.DuplicateUUID] = p.OriginalUUID
			}
			for i := range newNodes {
				if orig, ok := resolved[newNodes[i].UUID]; ok {
					newNodes[i].UUID = orig
				}
			}
		}
	}

	for _, node := range newNodes {
		if err := g.saveEntity(ctx, node); err != nil {
			log.Printf("Warning: failed to save entity %s: %v", node.Name, err)
			continue
		}

		edgeParams := map[string]interface{}{
			"uuid":        g.UUIDGenerator(),
			"source_uuid": epUUID,
			"target_uuid": node.UUID,
			"group_id":    ep.GroupID,
			"created_at":  now,
		}
		if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveEpisodicEdgeQuery, edgeParams); err != nil {
			log.Printf("Warning: failed to link episode to entity %s: %v", node.Name, err)
		}
	}

	edges, err := g.Extractor.ExtractEdges(ctx, ep.Body, newNodes)
	if err != nil {
		log.Printf("Warning: edge extraction failed for episode %s: %v", ep.Name, err)
		return nil
	}

	factsByNode := make(map[string][]string)
	for _, edge := range edges {
		g.invalidateContradictedEdges(ctx, edge, refTime)

		params := map[string]interface{}{
			"uuid":        g.UUIDGenerator(),
			"source_uuid": edge.SourceNodeUUID,
			"target_uuid": edge.TargetNodeUUID,
			"name":        edge.RelationType,
			"fact":        edge.Fact,
			"group_id":    ep.GroupID,
			"created_at":  now,
			"valid_at":    refTime,
			"invalid_at":  nil,
			"episodes":    []string{epUUID},
		}
		if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveEntityEdgeQuery, params); err != nil {
			log.Printf("Warning: failed to save fact edge %s: %v", edge.RelationType, err)
			continue
		}
		factsByNode[edge.SourceNodeUUID] = append(factsByNode[edge.SourceNodeUUID], edge.Fact)
		factsByNode[edge.TargetNodeUUID] = append(factsByNode[edge.TargetNodeUUID], edge.Fact)
	}

	for _, node := range newNodes {
		facts := factsByNode[node.UUID]
		if len(facts) == 0 {
			continue
		}
		s, err := g.Summarizer.SummarizeNode(ctx, node, facts)
		if err != nil {
			log.Printf("Warning: failed to summarize %s: %v", node.Name, err)
			continue
		}
		node.Summary = s
		if err := g.saveEntity(ctx, node); err != nil {
			log.Printf("Warning: failed to update summary for %s: %v", node.Name, err)
		}
	}

	return nil
}

// invalidateContradictedEdges closes the validity window of active facts
// between the pair that a new fact supersedes. Best effort: any failure keeps
// the old facts active rather than blocking the new one.
func (g *Graph) invalidateContradictedEdges(ctx context.Context, edge model.ExtractedEdge, refTime time.Time) {
	res, err := g.Driver.ExecuteQuery(ctx, driver.GetActiveEdgesQuery, map[string]interface{}{
		"source_uuid": edge.SourceNodeUUID,
		"target_uuid": edge.TargetNodeUUID,
	})
	if err != nil {
		log.Printf("Warning: failed to load active edges for contradiction check: %v", err)
		return
	}

	var active []model.EntityEdge
	for _, rec := range res.Records {
		u, _ := rec.Get("uuid")
		f, _ := rec.Get("fact")
		active = append(active, model.EntityEdge{UUID: asString(u), Fact: asString(f)})
	}
	if len(active) == 0 {
		return
	}

	contradicted, err := g.Deduplicator.ResolveEdgeContradictions(ctx, edge.Fact, active)
	if err != nil {
		log.Printf("Warning: contradiction check failed, keeping existing facts active: %v", err)
		return
	}

	for _, uuid := range contradicted {
		params := map[string]interface{}{
			"uuid":       uuid,
			"invalid_at": refTime,
		}
		if _, err := g.Driver.ExecuteQuery(ctx, driver.InvalidateEdgeQuery, params); err != nil {
			log.Printf("Warning: failed to invalidate edge %s: %v", uuid, err)
			continue
		}
		log.Printf("Invalidated fact %s (superseded at %s)", uuid, refTime.Format(time.RFC3339))
	}
}

// Search retrieves facts matching the free-text query, reranked by the LLM
// when a reranker is configured.
func (g *Graph) Search(ctx context.Context, groupID, query string, limit int) ([]model.FactResult, error) {
	if limit <= 0 {
		limit = 10
	}

	params := map[string]interface{}{
		"group_id": groupID,
		"query":    query,
		"limit":    limit,
	}

	result, err := g.Driver.ExecuteQuery(ctx, driver.SearchFactsQuery, params)
	if err != nil {
		return nil, err
	}

	var facts []model.FactResult
	for _, rec := range result.Records {
		u, _ := rec.Get("uuid")
		f, _ := rec.Get("fact")
		va, _ := rec.Get("valid_at")
		ia, _ := rec.Get("invalid_at")
		src, _ := rec.Get("source_node_uuid")
		facts = append(facts, model.FactResult{
			UUID:           asString(u),
			Fact:           asString(f),
			ValidAt:        asTimeString(va),
			InvalidAt:      asTimeString(ia),
			SourceNodeUUID: asString(src),
		})
	}

	if g.Reranker != nil && len(facts) > 1 {
		docs := make([]string, len(facts))
		for i, f := range facts {
			docs[i] = f.Fact
		}
		if order, err := g.Reranker.Rank(ctx, query, docs); err == nil && len(order) == len(facts) {
			ranked := make([]model.FactResult, len(facts))
			for i, idx := range order {
				ranked[i] = facts[idx]
			}
			facts = ranked
		}
	}

	return facts, nil
}

// Stats returns total node and relationship counts for the target database.
func (g *Graph) Stats(ctx context.Context) (nodes, relationships int64, err error) {
	res, err := g.Driver.ExecuteQuery(ctx, driver.NodeCountQuery, nil)
	if err != nil {
		return 0, 0, err
	}
	if len(res.Records) > 0 {
		if v, ok := res.Records[0].Get("node_count"); ok {
			nodes = asInt64(v)
		}
	}

	res, err = g.Driver.ExecuteQuery(ctx, driver.RelationshipCountQuery, nil)
	if err != nil {
		return 0, 0, err
	}
	if len(res.Records) > 0 {
		if v, ok := res.Records[0].Get("rel_count"); ok {
			relationships = asInt64(v)
		}
	}

	return nodes, relationships, nil
}

// BuildCommunities clusters a group's entities, summarizes each cluster and
// persists Community nodes with HAS_MEMBER edges. Returns the cluster count.
func (g *Graph) BuildCommunities(ctx context.Context, groupID string) (int, error) {
	nodes, err := g.getGroupNodes(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to load group nodes: %w", err)
	}
	edges, err := g.getGroupEdges(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to load group edges: %w", err)
	}

	clusters, err := g.Detector.Detect(nodes, edges)
	if err != nil {
		return 0, fmt.Errorf("community detection failed: %w", err)
	}

	now := time.Now().UTC()
	built := 0
	for _, cluster := range clusters {
		desc, err := g.Summarizer.SummarizeCommunity(ctx, cluster)
		if err != nil {
			log.Printf("Warning: failed to summarize community: %v", err)
			continue
		}
		name, err := g.Summarizer.GenerateCommunityName(ctx, desc)
		if err != nil || name == "" {
			name = fmt.Sprintf("Community %d", built+1)
		}

		commUUID := g.UUIDGenerator()
		params := map[string]interface{}{
			"uuid":       commUUID,
			"name":       name,
			"group_id":   groupID,
			"created_at": now,
			"summary":    desc,
		}
		if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveCommunityNodeQuery, params); err != nil {
			log.Printf("Warning: failed to save community %s: %v", name, err)
			continue
		}

		for _, member := range cluster {
			edgeParams := map[string]interface{}{
				"uuid":        g.UUIDGenerator(),
				"source_uuid": commUUID,
				"target_uuid": member.UUID,
				"group_id":    groupID,
				"created_at":  now,
			}
			if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveCommunityEdgeQuery, edgeParams); err != nil {
				log.Printf("Warning: failed to link community member %s: %v", member.Name, err)
			}
		}
		built++
	}

	return built, nil
}

func (g *Graph) getGroupNodes(ctx context.Context, groupID string) ([]model.EntityNode, error) {
	res, err := g.Driver.ExecuteQuery(ctx, driver.GetGroupNodesQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return nil, err
	}

	var nodes []model.EntityNode
	for _, rec := range res.Records {
		u, _ := rec.Get("uuid")
		n, _ := rec.Get("name")
		s, _ := rec.Get("summary")
		nodes = append(nodes, model.EntityNode{
			UUID:    asString(u),
			Name:    asString(n),
			GroupID: groupID,
			Summary: asString(s),
		})
	}
	return nodes, nil
}

func (g *Graph) getGroupEdges(ctx context.Context, groupID string) ([]model.EntityEdge, error) {
	res, err := g.Driver.ExecuteQuery(ctx, driver.GetGroupEdgesQuery, map[string]interface{}{"group_id": groupID})
	if err != nil {
		return nil, err
	}

	var edges []model.EntityEdge
	for _, rec := range res.Records {
		u, _ := rec.Get("uuid")
		s, _ := rec.Get("source_uuid")
		t, _ := rec.Get("target_uuid")
		f, _ := rec.Get("fact")
		edges = append(edges, model.EntityEdge{
			UUID:       asString(u),
			SourceUUID: asString(s),
			TargetUUID: asString(t),
			GroupID:    groupID,
			Fact:       asString(f),
		})
	}
	return edges, nil
}

func (g *Graph) saveEntity(ctx context.Context, node model.EntityNode) error {
	params := map[string]interface{}{
		"uuid":           node.UUID,
		"name":           node.Name,
		"group_id":       node.GroupID,
		"created_at":     node.CreatedAt,
		"summary":        node.Summary,
		"name_embedding": nil,
	}

	if g.Embedder != nil {
		if vec, err := g.Embedder.Embed(ctx, node.Name); err == nil {
			params["name_embedding"] = vec
		}
	}

	_, err := g.Driver.ExecuteQuery(ctx, driver.SaveEntityNodeQuery, params)
	return err
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asTimeString(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		return t
	default:
		return ""
	}
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
