package model

// FactResult is one ranked fact returned from a graph search.
type FactResult struct {
	UUID           string `json:"uuid"`
	Fact           string `json:"fact"`
	ValidAt        string `json:"valid_at,omitempty"`
	InvalidAt      string `json:"invalid_at,omitempty"`
	SourceNodeUUID string `json:"source_node_uuid,omitempty"`
}
