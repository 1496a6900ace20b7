package model

import "time"

type EntityEdge struct {
	UUID       string     `json:"uuid"`
	SourceUUID string     `json:"source_node_uuid"`
	TargetUUID string     `json:"target_node_uuid"`
	GroupID    string     `json:"group_id"`
	Name       string     `json:"name"` // relation type, e.g. OBSERVES
	Fact       string     `json:"fact"`
	CreatedAt  time.Time  `json:"created_at"`
	ValidAt    time.Time  `json:"valid_at"`
	InvalidAt  *time.Time `json:"invalid_at,omitempty"`
	Episodes   []string   `json:"episodes"` // episode UUIDs supporting this fact
}

type EpisodicEdge struct {
	UUID       string    `json:"uuid"`
	SourceUUID string    `json:"source_node_uuid"` // Episode
	TargetUUID string    `json:"target_node_uuid"` // Entity
	GroupID    string    `json:"group_id"`
	CreatedAt  time.Time `json:"created_at"`
	// Relationship type is MENTIONS
}

type CommunityEdge struct {
	UUID       string    `json:"uuid"`
	SourceUUID string    `json:"source_node_uuid"` // Community
	TargetUUID string    `json:"target_node_uuid"` // Entity
	GroupID    string    `json:"group_id"`
	CreatedAt  time.Time `json:"created_at"`
	// Relationship type is HAS_MEMBER
}
