package detect

import (
	"fmt"
	"math"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

// relationship confidence baseline, scaled by the weaker of the two
// mention confidences
const relationshipBaseline = 0.75

const targetClassCompliance = "COMPLIANCE_STANDARD"

// SynthesizeRelationships pairs every requirement in the chunk with
// every compliance standard mentioned in the same chunk
// (REQUIRES_COMPLIANCE), then adds GOVERNED_BY records for standards
// referenced only by matched policy snippets. The cross product is
// intentional: co-location is weak evidence, and the graph builder
// deduplicates the resulting edge inflation.
func SynthesizeRelationships(chunk docModel.Chunk) []docModel.RelationshipRecord {
	var records []docModel.RelationshipRecord
	seq := 0

	add := func(sourceId, targetId string, relType docModel.RelationType, confidence float64) {
		if sourceId == "" || targetId == "" || sourceId == targetId {
			return
		}
		seq++
		records = append(records, docModel.RelationshipRecord{
			EdgeId:      fmt.Sprintf("EDGE_%s_%03d", chunk.ChunkId, seq),
			SourceId:    sourceId,
			TargetId:    targetId,
			Type:        relType,
			TargetClass: targetClassCompliance,
			Confidence:  round2(confidence),
			Page:        chunk.PageNumber,
		})
	}

	for _, req := range chunk.DetectedRequirements {
		for _, comp := range chunk.DetectedCompliance {
			conf := relationshipBaseline * math.Min(req.Confidence, comp.Confidence)
			add(req.Id, comp.CanonicalId, docModel.RequiresCompliance, conf)
		}
		// policy corpus matches may name standards the text never
		// mentioned directly; the builder resolves both to one node
		for _, match := range chunk.PolicyMatches {
			if match.StandardRef == "" {
				continue
			}
			conf := relationshipBaseline * math.Min(req.Confidence, match.Similarity)
			add(req.Id, match.StandardRef, docModel.GovernedBy, conf)
		}
	}

	return records
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
