package graph

import (
	"fmt"
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/pipeline/detect"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

const (
	testCaseConfidence = 0.9
	verifiedByConfidence = 0.9
	relationshipTargetConfidence = 0.7
)

// builder accumulates nodes and edges in insertion order. Index maps
// make upserts idempotent; the slices keep the deterministic order the
// resolver and the tests depend on.
type builder struct {
	nodes     []graphModel.Node
	nodeIndex map[string]int
	nodePage  map[string]int

	edges     []graphModel.Edge
	edgeIndex map[string]int // (from|to|relation) -> position

	warnings []string
	logger   *logger_i.Logger
}

// Build consumes annotated chunks plus generated test cases and
// produces the unified node and edge sets with metadata. It is a pure,
// synchronous transformation: same input order, byte-identical output.
// Malformed records are skipped with a warning, never an abort;
// upstream extraction is expected to be noisy.
func Build(chunks []docModel.Chunk, testCases []docModel.TestCase) graphModel.Graph {
	b := &builder{
		nodeIndex: make(map[string]int),
		nodePage:  make(map[string]int),
		edgeIndex: make(map[string]int),
		logger:    logger_i.NewLogger("KG Builder"),
	}

	for _, chunk := range chunks {
		if chunk.ChunkId == "" {
			b.warn("chunk without chunk_id skipped")
			continue
		}
		b.addRequirementNodes(chunk)
		b.addComplianceNodes(chunk)
	}

	b.addTestCases(testCases)

	// relationship edges go in after every node source has run, so the
	// dual-creation paths cannot race the endpoint check
	for _, chunk := range chunks {
		if chunk.ChunkId == "" {
			continue
		}
		b.addRelationshipEdges(chunk)
	}

	return graphModel.Graph{
		Nodes:    b.nodeSlice(),
		Edges:    b.edgeSlice(),
		Metadata: b.computeMetadata(),
	}
}

func (b *builder) warn(msg string) {
	b.logger.Warn("data quality", "detail", msg)
	b.warnings = append(b.warnings, msg)
}

// upsertNode keeps exactly one node per id. A later source replaces
// the stored attributes wholesale only when it carries strictly higher
// confidence; ties keep the first occurrence.
func (b *builder) upsertNode(node graphModel.Node) {
	if pos, ok := b.nodeIndex[node.Id]; ok {
		if node.Confidence > b.nodes[pos].Confidence {
			b.nodes[pos] = node
			b.nodePage[node.Id] = node.PageNumber
		}
		return
	}
	b.nodeIndex[node.Id] = len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.nodePage[node.Id] = node.PageNumber
}

func (b *builder) addRequirementNodes(chunk docModel.Chunk) {
	for _, req := range chunk.DetectedRequirements {
		if req.Id == "" || strings.TrimSpace(req.Text) == "" {
			b.warn(fmt.Sprintf("requirement mention without id or text in chunk %s skipped", chunk.ChunkId))
			continue
		}
		priority := "Medium"
		if strings.Contains(strings.ToLower(req.Text), "critical") {
			priority = "High"
		}
		b.upsertNode(graphModel.Node{
			Id:         req.Id,
			Type:       graphModel.NodeRequirement,
			Title:      titleFor(req.Text),
			Text:       req.Text,
			Confidence: req.Confidence,
			PageNumber: chunk.PageNumber,
			Priority:   priority,
			Source:     graphModel.SourceDetectedRequirements,
		})
	}
}

// addComplianceNodes covers both creation paths: explicit mentions and
// relationship targets. A standard reached both ways resolves to one
// node keyed by canonical id.
func (b *builder) addComplianceNodes(chunk docModel.Chunk) {
	for _, comp := range chunk.DetectedCompliance {
		canonical, standardType, _ := detect.Normalize(comp.CanonicalId)
		if comp.CanonicalId == "" {
			canonical, standardType, _ = detect.Normalize(comp.Name)
		}
		b.upsertNode(graphModel.Node{
			Id:           canonical,
			Type:         graphModel.NodeComplianceStandard,
			Title:        canonical,
			Text:         fmt.Sprintf("Compliance standard: %s", comp.Name),
			Confidence:   comp.Confidence,
			PageNumber:   chunk.PageNumber,
			StandardType: standardType,
			Source:       graphModel.SourceDetectedCompliance,
		})
	}

	for _, rel := range chunk.Relationships {
		if rel.TargetClass != "COMPLIANCE_STANDARD" || rel.TargetId == "" {
			continue
		}
		canonical, standardType, _ := detect.Normalize(rel.TargetId)
		b.upsertNode(graphModel.Node{
			Id:           canonical,
			Type:         graphModel.NodeComplianceStandard,
			Title:        canonical,
			Text:         fmt.Sprintf("Compliance standard: %s", canonical),
			Confidence:   relationshipTargetConfidence,
			PageNumber:   chunk.PageNumber,
			StandardType: standardType,
			Source:       graphModel.SourceChunkRelationships,
		})
	}
}

func (b *builder) addTestCases(testCases []docModel.TestCase) {
	for _, tc := range testCases {
		if tc.TestId == "" {
			b.warn("test case without test_id skipped")
			continue
		}
		if tc.DerivedFrom == "" {
			b.warn(fmt.Sprintf("test case %s without derived_from skipped", tc.TestId))
			continue
		}
		b.upsertNode(graphModel.Node{
			Id:         tc.TestId,
			Type:       graphModel.NodeTestCase,
			Title:      tc.Title,
			Text:       tc.Description,
			Confidence: testCaseConfidence,
			Priority:   tc.Priority,
			Category:   tc.Category,
			Source:     graphModel.SourceTestGeneration,
		})

		if _, ok := b.nodeIndex[tc.DerivedFrom]; !ok {
			b.warn(fmt.Sprintf("test case %s derives from unknown requirement %s", tc.TestId, tc.DerivedFrom))
		} else {
			b.upsertEdge(graphModel.Edge{
				Id:         fmt.Sprintf("EDGE_TC_%s_verify", tc.TestId),
				From:       tc.DerivedFrom,
				To:         tc.TestId,
				Relation:   docModel.VerifiedBy,
				Confidence: verifiedByConfidence,
				Source:     graphModel.SourceTestGeneration,
			})
		}

		for _, ref := range tc.ComplianceRefs {
			canonical, standardType, _ := detect.Normalize(ref)
			b.upsertNode(graphModel.Node{
				Id:           canonical,
				Type:         graphModel.NodeComplianceStandard,
				Title:        canonical,
				Text:         fmt.Sprintf("Compliance standard: %s", canonical),
				Confidence:   relationshipTargetConfidence,
				StandardType: standardType,
				Source:       graphModel.SourceTestGeneration,
			})
			b.upsertEdge(graphModel.Edge{
				Id:         fmt.Sprintf("EDGE_TC_%s_%s", tc.TestId, canonical),
				From:       tc.TestId,
				To:         canonical,
				Relation:   docModel.EnsuresComplianceWith,
				Confidence: testCaseConfidence,
				Source:     graphModel.SourceTestGeneration,
			})
		}
	}
}

func (b *builder) addRelationshipEdges(chunk docModel.Chunk) {
	for _, rel := range chunk.Relationships {
		if rel.SourceId == "" || rel.TargetId == "" || rel.SourceId == rel.TargetId {
			b.warn(fmt.Sprintf("malformed relationship %s skipped", rel.EdgeId))
			continue
		}
		targetId := rel.TargetId
		if rel.TargetClass == "COMPLIANCE_STANDARD" {
			targetId, _, _ = detect.Normalize(rel.TargetId)
		}
		// dangling endpoints are a data-quality signal, not a failure
		if _, ok := b.nodeIndex[rel.SourceId]; !ok {
			b.warn(fmt.Sprintf("relationship %s references unknown source %s", rel.EdgeId, rel.SourceId))
			continue
		}
		if _, ok := b.nodeIndex[targetId]; !ok {
			b.warn(fmt.Sprintf("relationship %s references unknown target %s", rel.EdgeId, targetId))
			continue
		}
		page := rel.Page
		if page == 0 {
			page = chunk.PageNumber
		}
		b.upsertEdge(graphModel.Edge{
			Id:         rel.EdgeId,
			From:       rel.SourceId,
			To:         targetId,
			Relation:   rel.Type,
			Confidence: rel.Confidence,
			Source:     graphModel.SourceChunkRelationships,
			Page:       page,
		})
	}
}

// upsertEdge enforces the (from, to, relation) uniqueness invariant.
// Duplicates merge by keeping the max confidence; id, source and page
// stay first-seen.
func (b *builder) upsertEdge(edge graphModel.Edge) {
	key := edge.From + "|" + edge.To + "|" + string(edge.Relation)
	if pos, ok := b.edgeIndex[key]; ok {
		if edge.Confidence > b.edges[pos].Confidence {
			b.edges[pos].Confidence = edge.Confidence
		}
		return
	}
	b.edgeIndex[key] = len(b.edges)
	b.edges = append(b.edges, edge)
}

func (b *builder) nodeSlice() []graphModel.Node {
	if b.nodes == nil {
		return []graphModel.Node{}
	}
	return b.nodes
}

func (b *builder) edgeSlice() []graphModel.Edge {
	if b.edges == nil {
		return []graphModel.Edge{}
	}
	return b.edges
}

func titleFor(text string) string {
	if len(text) > 100 {
		return text[:100] + "..."
	}
	return text
}
