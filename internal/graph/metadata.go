package graph

import (
	"math"
	"sort"

	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
)

const topConnectedLimit = 5

func (b *builder) computeMetadata() graphModel.Metadata {
	meta := graphModel.Metadata{
		TotalNodes:       len(b.nodes),
		TotalEdges:       len(b.edges),
		ComplianceByType: make(map[string]int),
		EdgesByRelation:  make(map[string]int),
		Warnings:         b.warnings,
	}

	for _, n := range b.nodes {
		switch n.Type {
		case graphModel.NodeRequirement:
			meta.RequirementNodes++
		case graphModel.NodeComplianceStandard:
			meta.ComplianceNodes++
			meta.ComplianceByType[n.StandardType]++
		case graphModel.NodeTestCase:
			meta.TestCaseNodes++
		}
	}

	degrees := make(map[string]int)
	confidenceSum := 0.0
	for _, e := range b.edges {
		meta.EdgesByRelation[string(e.Relation)]++
		confidenceSum += e.Confidence
		degrees[e.From]++
		degrees[e.To]++

		fromPage := b.nodePage[e.From]
		toPage := b.nodePage[e.To]
		if fromPage > 0 && toPage > 0 && fromPage != toPage {
			meta.CrossPageLinks++
		}
	}

	meta.GraphDensity = round2(float64(len(b.edges)) / math.Max(1, float64(len(b.nodes))))
	if len(b.edges) > 0 {
		meta.AvgConfidence = round2(confidenceSum / float64(len(b.edges)))
	}
	meta.TopConnectedNodes = b.topConnected(degrees)

	return meta
}

// topConnected ranks by degree; ties break by node insertion order so
// the output stays deterministic.
func (b *builder) topConnected(degrees map[string]int) []graphModel.NodeDegree {
	ranked := make([]graphModel.NodeDegree, 0, len(degrees))
	for _, n := range b.nodes {
		if d, ok := degrees[n.Id]; ok {
			ranked = append(ranked, graphModel.NodeDegree{NodeId: n.Id, Connections: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Connections > ranked[j].Connections
	})
	if len(ranked) > topConnectedLimit {
		ranked = ranked[:topConnectedLimit]
	}
	if ranked == nil {
		ranked = []graphModel.NodeDegree{}
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
