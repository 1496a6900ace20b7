package model

import "time"

// Episode source kinds. The loader always submits json episodes; message is
// kept for conversational ingestion through the HTTP API.
const (
	SourceJSON    = "json"
	SourceMessage = "message"
)

// Episode is the unit of ingestion: a named, timestamped document submitted
// to the graph for entity and fact extraction.
type Episode struct {
	Name              string    `json:"name"`
	Body              string    `json:"body"`
	Source            string    `json:"source"`
	SourceDescription string    `json:"source_description"`
	// ReferenceTime is when the episode's content holds true, shared across a
	// whole ingestion run so one load is temporally coherent. It is distinct
	// from the node's created_at.
	ReferenceTime time.Time `json:"reference_time"`
	GroupID       string    `json:"group_id"`
}
