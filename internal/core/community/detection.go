package community

import (
	"github.com/mosdac-ai/orbit/internal/core/model"
)

type CommunityDetector interface {
	Detect(nodes []model.EntityNode, edges []model.EntityEdge) ([][]model.EntityNode, error)
}

func NewDetector() CommunityDetector {
	return NewLabelPropagationDetector()
}
