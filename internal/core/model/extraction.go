package model

type ExtractedEntity struct {
	Name string `json:"name"`
}

type ExtractedEntities struct {
	ExtractedEntities []ExtractedEntity `json:"extracted_entities"`
}

type ExtractedEdge struct {
	SourceNodeUUID string `json:"source_node_uuid"`
	TargetNodeUUID string `json:"target_node_uuid"`
	RelationType   string `json:"relation_type"`
	Fact           string `json:"fact"`
}

type ExtractedEdges struct {
	ExtractedEdges []ExtractedEdge `json:"extracted_edges"`
}

type EntitySummary struct {
	Summary string `json:"summary"`
}

type CommunityName struct {
	Name string `json:"name"`
}
