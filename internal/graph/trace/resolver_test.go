package trace

import (
	"errors"
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/graph"
)

func fixtureGraph() (graphModel.Graph, []docModel.TestCase) {
	chunks := []docModel.Chunk{
		{
			ChunkId:    "CHUNK_001",
			PageNumber: 1,
			DetectedRequirements: []docModel.RequirementMention{
				{Id: "REQ-001", Text: "The system shall encrypt patient records.", Confidence: 0.85},
				{Id: "REQ-002", Text: "Exports must be anonymized before delivery.", Confidence: 0.85},
			},
			DetectedCompliance: []docModel.ComplianceMention{
				{Name: "HIPAA", CanonicalId: "HIPAA:45-CFR-164", StandardType: "HIPAA", Confidence: 0.8},
				{Name: "GDPR", CanonicalId: "GDPR:2016/679", StandardType: "GDPR", Confidence: 0.8},
			},
			Relationships: []docModel.RelationshipRecord{
				{EdgeId: "EDGE_CHUNK_001_001", SourceId: "REQ-002", TargetId: "GDPR:2016/679",
					Type: docModel.RequiresCompliance, TargetClass: "COMPLIANCE_STANDARD", Confidence: 0.6},
			},
		},
	}
	testCases := []docModel.TestCase{
		{TestId: "TC_001", Title: "Verify record encryption", Category: "Security Tests",
			Priority: "High", DerivedFrom: "REQ-001", ComplianceRefs: []string{"HIPAA"}},
		{TestId: "TC_002", Title: "Verify export anonymization", Category: "Compliance Tests",
			Priority: "Medium", DerivedFrom: "REQ-001"},
	}
	return graph.Build(chunks, testCases), testCases
}

func TestResolve_ByRequirementId(t *testing.T) {
	g, testCases := fixtureGraph()

	result, err := Resolve(graphModel.TraceQuery{RequirementId: "REQ-001"}, &g, testCases)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Requirement.Id != "REQ-001" {
		t.Errorf("requirement = %s, want REQ-001", result.Requirement.Id)
	}
	if result.SourceUsed != graphModel.TraceSourceDirect {
		t.Errorf("source = %s, want %s", result.SourceUsed, graphModel.TraceSourceDirect)
	}
	if len(result.LinkedTestCases) != 2 {
		t.Fatalf("linked test cases = %d, want 2", len(result.LinkedTestCases))
	}
	if result.LinkedTestCases[0].Id != "TC_001" || result.LinkedTestCases[1].Id != "TC_002" {
		t.Errorf("test case order = %s, %s", result.LinkedTestCases[0].Id, result.LinkedTestCases[1].Id)
	}
	// HIPAA reached through TC_001
	if len(result.ComplianceStandards) != 1 || result.ComplianceStandards[0].Id != "HIPAA:45-CFR-164" {
		t.Errorf("standards = %v", result.ComplianceStandards)
	}
	if len(result.TraceabilityChain) != 1 {
		t.Fatalf("chain paths = %d, want 1", len(result.TraceabilityChain))
	}
	entry := result.TraceabilityChain[0]
	if entry.TestCaseId != "TC_001" || entry.ComplianceStandardId != "HIPAA:45-CFR-164" || entry.DirectRelationship {
		t.Errorf("unexpected chain entry: %+v", entry)
	}
	if result.Metadata.TotalTestCases != 2 || result.Metadata.TotalComplianceStandards != 1 || result.Metadata.ChainPaths != 1 {
		t.Errorf("metadata = %+v", result.Metadata)
	}
}

func TestResolve_DirectComplianceWithoutTests(t *testing.T) {
	g, testCases := fixtureGraph()

	result, err := Resolve(graphModel.TraceQuery{RequirementId: "REQ-002"}, &g, testCases)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.LinkedTestCases) != 0 {
		t.Errorf("linked test cases = %d, want 0", len(result.LinkedTestCases))
	}
	if len(result.TraceabilityChain) != 1 {
		t.Fatalf("chain paths = %d, want 1", len(result.TraceabilityChain))
	}
	entry := result.TraceabilityChain[0]
	if !entry.DirectRelationship || entry.ComplianceStandardId != "GDPR:2016/679" || entry.TestCaseId != "" {
		t.Errorf("unexpected chain entry: %+v", entry)
	}
}

func TestResolve_ByTestCaseId_GraphEdgesWin(t *testing.T) {
	g, testCases := fixtureGraph()

	result, err := Resolve(graphModel.TraceQuery{TestCaseId: "TC_001"}, &g, testCases)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result.Requirement.Id != "REQ-001" {
		t.Errorf("requirement = %s, want REQ-001", result.Requirement.Id)
	}
	if result.SourceUsed != graphModel.TraceSourceGraphEdges {
		t.Errorf("source = %s, want %s", result.SourceUsed, graphModel.TraceSourceGraphEdges)
	}
}

func TestResolve_ByTestCaseId_PayloadFallback(t *testing.T) {
	g, _ := fixtureGraph()

	// strip the verified_by edges so only the payload can anchor
	var kept []graphModel.Edge
	for _, e := range g.Edges {
		if e.Relation != docModel.VerifiedBy {
			kept = append(kept, e)
		}
	}
	g.Edges = kept

	payload := []docModel.TestCase{
		{TestId: "TC_001", DerivedFrom: "REQ-001"},
	}
	result, err := Resolve(graphModel.TraceQuery{TestCaseId: "TC_001"}, &g, payload)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result.SourceUsed != graphModel.TraceSourceTestCasePayload {
		t.Errorf("source = %s, want %s", result.SourceUsed, graphModel.TraceSourceTestCasePayload)
	}
	if result.Requirement.Id != "REQ-001" {
		t.Errorf("requirement = %s, want REQ-001", result.Requirement.Id)
	}
}

func TestResolve_BadQuery(t *testing.T) {
	g, testCases := fixtureGraph()

	_, err := Resolve(graphModel.TraceQuery{}, &g, testCases)
	if !errors.Is(err, ErrBadQuery) {
		t.Errorf("err = %v, want ErrBadQuery", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	g, testCases := fixtureGraph()

	tests := []struct {
		name     string
		query    graphModel.TraceQuery
		wantKind string
		wantId   string
	}{
		{"unknown requirement", graphModel.TraceQuery{RequirementId: "REQ-999"}, "requirement", "REQ-999"},
		{"unknown test case", graphModel.TraceQuery{TestCaseId: "TC_999"}, "test case", "TC_999"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.query, &g, testCases)
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("err = %v, want NotFoundError", err)
			}
			if notFound.Kind != tc.wantKind || notFound.Id != tc.wantId {
				t.Errorf("got %s %q, want %s %q", notFound.Kind, notFound.Id, tc.wantKind, tc.wantId)
			}
		})
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	g, testCases := fixtureGraph()
	nodesBefore := len(g.Nodes)
	edgesBefore := len(g.Edges)

	if _, err := Resolve(graphModel.TraceQuery{RequirementId: "REQ-001"}, &g, testCases); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(g.Nodes) != nodesBefore || len(g.Edges) != edgesBefore {
		t.Error("resolver mutated the supplied graph")
	}
}
