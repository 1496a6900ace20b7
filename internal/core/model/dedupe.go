package model

type DuplicatePair struct {
	OriginalUUID  string  `json:"original_uuid"`  // the existing node
	DuplicateUUID string  `json:"duplicate_uuid"` // the newly extracted node
	Confidence    float64 `json:"confidence"`
}

type DeduplicationResult struct {
	Duplicates []DuplicatePair `json:"duplicates"`
}

type ContradictionResult struct {
	ContradictedEdgeUUIDs []string `json:"contradicted_edge_uuids"`
}
