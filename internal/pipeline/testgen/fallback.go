package testgen

import (
	"fmt"
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

var testCategories = []string{
	"Security Tests",
	"Compliance Tests",
	"Functional Tests",
	"Integration Tests",
	"Performance Tests",
}

// fallbackSuite derives a deterministic test suite straight from the
// annotated chunks. Used when no model backend is configured or every
// generation attempt failed. Every detected requirement id appears in
// at least one derived_from.
func fallbackSuite(chunks []docModel.Chunk) []docModel.TestCase {
	var tests []docModel.TestCase
	counter := 1

	for _, chunk := range chunks {
		refs := complianceRefs(chunk)

		for _, req := range chunk.DetectedRequirements {
			tests = append(tests, docModel.TestCase{
				TestId:         fmt.Sprintf("TC_%03d", counter),
				Title:          fmt.Sprintf("Verify %s", req.Id),
				Description:    fmt.Sprintf("Validate behavior for: %s", req.Text),
				Category:       categoryForRequirement(chunk, req),
				Priority:       priorityForConfidence(req.Confidence),
				DerivedFrom:    req.Id,
				ComplianceRefs: refs,
			})
			counter++

			if len(refs) > 0 {
				tests = append(tests, docModel.TestCase{
					TestId:         fmt.Sprintf("TC_%03d", counter),
					Title:          fmt.Sprintf("Verify %s compliance mapping", req.Id),
					Description:    fmt.Sprintf("Confirm %s satisfies %s", req.Id, strings.Join(refs, ", ")),
					Category:       "Compliance Tests",
					Priority:       "High",
					DerivedFrom:    req.Id,
					ComplianceRefs: refs,
				})
				counter++
			}
		}
	}

	return tests
}

// ensureCoverage supplements a model-generated suite so every detected
// requirement id is referenced by at least one test case.
func ensureCoverage(tests []docModel.TestCase, chunks []docModel.Chunk) []docModel.TestCase {
	covered := make(map[string]bool, len(tests))
	maxId := 0
	for _, tc := range tests {
		covered[tc.DerivedFrom] = true
		var n int
		if _, err := fmt.Sscanf(tc.TestId, "TC_%d", &n); err == nil && n > maxId {
			maxId = n
		}
	}

	counter := maxId + 1
	for _, chunk := range chunks {
		refs := complianceRefs(chunk)
		for _, req := range chunk.DetectedRequirements {
			if covered[req.Id] {
				continue
			}
			tests = append(tests, docModel.TestCase{
				TestId:         fmt.Sprintf("TC_%03d", counter),
				Title:          fmt.Sprintf("Verify %s", req.Id),
				Description:    fmt.Sprintf("Validate behavior for: %s", req.Text),
				Category:       categoryForRequirement(chunk, req),
				Priority:       priorityForConfidence(req.Confidence),
				DerivedFrom:    req.Id,
				ComplianceRefs: refs,
			})
			covered[req.Id] = true
			counter++
		}
	}
	return tests
}

func complianceRefs(chunk docModel.Chunk) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, comp := range chunk.DetectedCompliance {
		if seen[comp.CanonicalId] {
			continue
		}
		seen[comp.CanonicalId] = true
		refs = append(refs, comp.CanonicalId)
	}
	return refs
}

func categoryForRequirement(chunk docModel.Chunk, req docModel.RequirementMention) string {
	for _, label := range chunk.Labels {
		switch label {
		case "SECURITY":
			return "Security Tests"
		case "COMPLIANCE":
			return "Compliance Tests"
		case "PERFORMANCE":
			return "Performance Tests"
		case "TECHNICAL":
			return "Integration Tests"
		}
	}
	if len(chunk.DetectedCompliance) > 0 {
		return "Compliance Tests"
	}
	return "Functional Tests"
}

func priorityForConfidence(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return "High"
	case confidence >= 0.70:
		return "Medium"
	default:
		return "Low"
	}
}
