package model

import "time"

type EntityNode struct {
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	GroupID       string    `json:"group_id"`
	CreatedAt     time.Time `json:"created_at"`
	Summary       string    `json:"summary,omitempty"`
	NameEmbedding []float32 `json:"name_embedding,omitempty"`
}

type EpisodicNode struct {
	UUID              string    `json:"uuid"`
	Name              string    `json:"name"`
	GroupID           string    `json:"group_id"`
	CreatedAt         time.Time `json:"created_at"`
	ValidAt           time.Time `json:"valid_at"`
	Content           string    `json:"content"`
	Source            string    `json:"source"`
	SourceDescription string    `json:"source_description"`
}

type CommunityNode struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	GroupID   string    `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}
