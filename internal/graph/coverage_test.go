package graph

import (
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

func TestAnalyzeCoverage_Gaps(t *testing.T) {
	g := Build(sampleChunks(), sampleTestCases())
	report := AnalyzeCoverage(&g, sampleTestCases())

	if report.TotalRequirements != 2 || report.TotalTests != 2 {
		t.Fatalf("totals = %d req / %d tests, want 2/2", report.TotalRequirements, report.TotalTests)
	}
	if report.TestsByCategory["Security Tests"] != 1 {
		t.Errorf("security test count = %d, want 1", report.TestsByCategory["Security Tests"])
	}

	gapTypes := make(map[string]bool)
	for _, gap := range report.Gaps {
		gapTypes[gap.Type] = true
	}
	// 1 test per requirement, 1 compliance test vs 2 standards, 1 security test
	for _, want := range []string{"insufficient_test_density", "compliance_coverage_gap", "security_coverage_gap"} {
		if !gapTypes[want] {
			t.Errorf("missing expected gap %s (got %v)", want, report.Gaps)
		}
	}
	if len(report.Recommendations) != len(report.Gaps) {
		t.Errorf("each gap should carry a recommendation: %d gaps, %d recommendations",
			len(report.Gaps), len(report.Recommendations))
	}

	// 2 tests / 2 requirements * 20
	if report.CoverageScore != 20 {
		t.Errorf("score = %v, want 20", report.CoverageScore)
	}
}

func TestAnalyzeCoverage_ScoreCapped(t *testing.T) {
	g := Build(sampleChunks(), nil)
	tests := make([]docModel.TestCase, 12)
	for i := range tests {
		tests[i] = docModel.TestCase{TestId: "TC_001", Category: "Functional Tests"}
	}
	report := AnalyzeCoverage(&g, tests)
	if report.CoverageScore != 100 {
		t.Errorf("score = %v, want the 100 cap", report.CoverageScore)
	}
}

func TestAnalyzeCoverage_EmptyGraph(t *testing.T) {
	g := Build(nil, nil)
	report := AnalyzeCoverage(&g, nil)
	if report.CoverageScore != 0 {
		t.Errorf("score = %v, want 0", report.CoverageScore)
	}
	if report.Gaps == nil || report.Recommendations == nil {
		t.Error("gaps and recommendations must be empty slices, not nil")
	}
}

func TestBuildDashboard(t *testing.T) {
	g := Build(sampleChunks(), sampleTestCases())
	dash := BuildDashboard(&g)

	if len(dash.Standards) != 2 {
		t.Fatalf("standards = %d, want 2", len(dash.Standards))
	}

	var gdpr *DashboardStandard
	for i := range dash.Standards {
		if dash.Standards[i].StandardId == "GDPR:2016/679" {
			gdpr = &dash.Standards[i]
		}
	}
	if gdpr == nil {
		t.Fatal("GDPR row missing from dashboard")
	}

	// REQ-001 links directly and through TC_001
	if len(gdpr.Requirements) != 1 || gdpr.Requirements[0] != "REQ-001" {
		t.Errorf("gdpr requirements = %v, want [REQ-001]", gdpr.Requirements)
	}
	if len(gdpr.TestCases) != 1 || gdpr.TestCases[0] != "TC_001" {
		t.Errorf("gdpr test cases = %v, want [TC_001]", gdpr.TestCases)
	}

	if dash.RequirementsTotal != 2 || dash.RequirementsCovered != 2 {
		t.Errorf("coverage = %d/%d, want 2/2", dash.RequirementsCovered, dash.RequirementsTotal)
	}
	if dash.CoverageCompleteness != 100 {
		t.Errorf("completeness = %v, want 100", dash.CoverageCompleteness)
	}
}

func TestBuildDashboard_NoStandards(t *testing.T) {
	chunks := []docModel.Chunk{
		{
			ChunkId: "CHUNK_001",
			DetectedRequirements: []docModel.RequirementMention{
				{Id: "REQ-001", Text: "The system shall start in under a second.", Confidence: 0.85},
			},
		},
	}
	g := Build(chunks, nil)
	dash := BuildDashboard(&g)
	if len(dash.Standards) != 0 {
		t.Errorf("standards = %d, want 0", len(dash.Standards))
	}
	if dash.RequirementsCovered != 0 {
		t.Errorf("covered = %d, want 0", dash.RequirementsCovered)
	}
}
