package graph

import (
	"math"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
)

type CoverageGap struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type CoverageReport struct {
	CoverageScore            float64       `json:"coverage_score"`
	TotalRequirements        int           `json:"total_requirements"`
	TotalComplianceStandards int           `json:"total_compliance_standards"`
	TotalTests               int           `json:"total_tests"`
	TestsByCategory          map[string]int `json:"tests_by_category"`
	Gaps                     []CoverageGap `json:"gaps"`
	Recommendations          []string      `json:"recommendations"`
}

// DashboardStandard is one row of the compliance dashboard: a standard
// with the requirements and tests connected to it.
type DashboardStandard struct {
	StandardId   string   `json:"standard_id"`
	StandardName string   `json:"standard_name"`
	StandardType string   `json:"standard_type"`
	Requirements []string `json:"requirements"`
	TestCases    []string `json:"test_cases"`
}

type Dashboard struct {
	Standards            []DashboardStandard `json:"standards"`
	RequirementsCovered  int                 `json:"requirements_covered"`
	RequirementsTotal    int                 `json:"requirements_total"`
	CoverageCompleteness float64             `json:"coverage_completeness"`
}

// AnalyzeCoverage checks that the generated test cases adequately
// cover the requirements and compliance standards in the graph.
func AnalyzeCoverage(g *graphModel.Graph, testCases []docModel.TestCase) CoverageReport {
	report := CoverageReport{
		TotalRequirements:        g.Metadata.RequirementNodes,
		TotalComplianceStandards: g.Metadata.ComplianceNodes,
		TotalTests:               len(testCases),
		TestsByCategory:          make(map[string]int),
		Gaps:                     []CoverageGap{},
		Recommendations:          []string{},
	}

	for _, tc := range testCases {
		report.TestsByCategory[tc.Category]++
	}

	if report.TotalRequirements > 0 {
		perRequirement := float64(report.TotalTests) / float64(report.TotalRequirements)
		if perRequirement < 2 {
			report.Gaps = append(report.Gaps, CoverageGap{
				Type:     "insufficient_test_density",
				Message:  "fewer than 2 tests per requirement",
				Severity: "medium",
			})
			report.Recommendations = append(report.Recommendations, "Generate more test cases to improve requirement coverage")
		}
	}

	if report.TotalComplianceStandards > 0 {
		complianceTests := report.TestsByCategory["Compliance Tests"]
		if complianceTests < report.TotalComplianceStandards {
			report.Gaps = append(report.Gaps, CoverageGap{
				Type:     "compliance_coverage_gap",
				Message:  "fewer compliance tests than standards detected",
				Severity: "high",
			})
			report.Recommendations = append(report.Recommendations, "Add more compliance test cases")
		}
	}

	if report.TestsByCategory["Security Tests"] < 3 {
		report.Gaps = append(report.Gaps, CoverageGap{
			Type:     "security_coverage_gap",
			Message:  "fewer than 3 security tests",
			Severity: "high",
		})
		report.Recommendations = append(report.Recommendations, "Add more security test cases for comprehensive coverage")
	}

	score := float64(report.TotalTests) / math.Max(1, float64(report.TotalRequirements)) * 20
	report.CoverageScore = round2(math.Min(100, score))
	return report
}

// BuildDashboard groups requirements and test cases under each
// compliance standard for the UI. Ordering follows node insertion
// order in the graph.
func BuildDashboard(g *graphModel.Graph) Dashboard {
	byStandard := make(map[string]*DashboardStandard)
	var order []string

	for _, n := range g.Nodes {
		if n.Type != graphModel.NodeComplianceStandard {
			continue
		}
		byStandard[n.Id] = &DashboardStandard{
			StandardId:   n.Id,
			StandardName: n.Title,
			StandardType: n.StandardType,
			Requirements: []string{},
			TestCases:    []string{},
		}
		order = append(order, n.Id)
	}

	appendOnce := func(list []string, id string) []string {
		for _, existing := range list {
			if existing == id {
				return list
			}
		}
		return append(list, id)
	}

	for _, e := range g.Edges {
		row, ok := byStandard[e.To]
		if !ok {
			continue
		}
		from, found := g.NodeById(e.From)
		if !found {
			continue
		}
		switch from.Type {
		case graphModel.NodeRequirement:
			row.Requirements = appendOnce(row.Requirements, from.Id)
		case graphModel.NodeTestCase:
			row.TestCases = appendOnce(row.TestCases, from.Id)
			// credit the requirement the test case verifies as well
			for _, ve := range g.Edges {
				if ve.Relation == docModel.VerifiedBy && ve.To == from.Id {
					row.Requirements = appendOnce(row.Requirements, ve.From)
				}
			}
		}
	}

	dash := Dashboard{Standards: []DashboardStandard{}, RequirementsTotal: g.Metadata.RequirementNodes}
	covered := make(map[string]bool)
	for _, id := range order {
		row := byStandard[id]
		for _, reqId := range row.Requirements {
			covered[reqId] = true
		}
		dash.Standards = append(dash.Standards, *row)
	}
	dash.RequirementsCovered = len(covered)
	if dash.RequirementsTotal > 0 {
		dash.CoverageCompleteness = round2(math.Min(100, float64(dash.RequirementsCovered)/float64(dash.RequirementsTotal)*100))
	}
	return dash
}
