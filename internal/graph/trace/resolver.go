package trace

import (
	"errors"
	"fmt"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

// ErrBadQuery is returned when the query supplies neither id. The
// caller forgot a parameter; there is no partial result.
var ErrBadQuery = errors.New("either requirement_id or test_case_id is required")

// NotFoundError names the id missing from the supplied payload so the
// caller can tell "bad parameter" apart from "unknown id".
type NotFoundError struct {
	Kind string
	Id   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in supplied payload", e.Kind, e.Id)
}

// Resolve reconstructs every Requirement → [Test Case] → Compliance
// Standard path for the queried id. It borrows the graph and payload
// without mutating either, and its output ordering follows edge
// insertion order in the graph: repeated calls on the same graph are
// byte-identical.
func Resolve(query graphModel.TraceQuery, g *graphModel.Graph, testCases []docModel.TestCase) (*graphModel.TraceResult, error) {
	logger := logger_i.NewLogger("Trace Resolver")

	if query.RequirementId == "" && query.TestCaseId == "" {
		return nil, ErrBadQuery
	}

	reqId, sourceUsed, err := anchorRequirement(query, g, testCases)
	if err != nil {
		return nil, err
	}

	requirement, ok := g.NodeById(reqId)
	if !ok || requirement.Type != graphModel.NodeRequirement {
		return nil, &NotFoundError{Kind: "requirement", Id: reqId}
	}

	result := &graphModel.TraceResult{
		Requirement:         requirement,
		LinkedTestCases:     []graphModel.Node{},
		ComplianceStandards: []graphModel.Node{},
		TraceabilityChain:   []graphModel.ChainEntry{},
		SourceUsed:          sourceUsed,
	}

	seenStandards := make(map[string]bool)
	addStandard := func(node graphModel.Node) {
		if !seenStandards[node.Id] {
			seenStandards[node.Id] = true
			result.ComplianceStandards = append(result.ComplianceStandards, node)
		}
	}

	// test cases verified by this requirement, in edge order
	var linkedIds []string
	for _, e := range g.Edges {
		if e.Relation != docModel.VerifiedBy || e.From != reqId {
			continue
		}
		tcNode, ok := g.NodeById(e.To)
		if !ok {
			// edge to a missing node is skipped, never raised
			logger.Warn("verified_by edge references missing node", "edge", e.Id, "to", e.To)
			continue
		}
		result.LinkedTestCases = append(result.LinkedTestCases, tcNode)
		linkedIds = append(linkedIds, tcNode.Id)
	}

	// indirect chains through each linked test case
	reachedViaTest := make(map[string]bool)
	for _, tcId := range linkedIds {
		tcNode, _ := g.NodeById(tcId)
		for _, e := range g.Edges {
			if e.Relation != docModel.EnsuresComplianceWith || e.From != tcId {
				continue
			}
			stdNode, ok := g.NodeById(e.To)
			if !ok {
				logger.Warn("compliance edge references missing node", "edge", e.Id, "to", e.To)
				continue
			}
			reachedViaTest[stdNode.Id] = true
			addStandard(stdNode)
			result.TraceabilityChain = append(result.TraceabilityChain, graphModel.ChainEntry{
				RequirementId:          reqId,
				TestCaseId:             tcNode.Id,
				TestCaseTitle:          tcNode.Title,
				ComplianceStandardId:   stdNode.Id,
				ComplianceStandardName: stdNode.Title,
				ComplianceStandardType: stdNode.StandardType,
				DirectRelationship:     false,
			})
		}
	}

	// direct requirement → compliance edges not already covered above
	seenDirect := make(map[string]bool)
	for _, e := range g.Edges {
		if e.From != reqId {
			continue
		}
		if e.Relation != docModel.GovernedBy && e.Relation != docModel.RequiresCompliance {
			continue
		}
		stdNode, ok := g.NodeById(e.To)
		if !ok || stdNode.Type != graphModel.NodeComplianceStandard {
			continue
		}
		if reachedViaTest[stdNode.Id] || seenDirect[stdNode.Id] {
			continue
		}
		seenDirect[stdNode.Id] = true
		addStandard(stdNode)
		result.TraceabilityChain = append(result.TraceabilityChain, graphModel.ChainEntry{
			RequirementId:          reqId,
			ComplianceStandardId:   stdNode.Id,
			ComplianceStandardName: stdNode.Title,
			ComplianceStandardType: stdNode.StandardType,
			DirectRelationship:     true,
		})
	}

	result.Metadata = graphModel.TraceMetadata{
		TotalTestCases:           len(result.LinkedTestCases),
		TotalComplianceStandards: len(result.ComplianceStandards),
		ChainPaths:               len(result.TraceabilityChain),
	}
	return result, nil
}

// anchorRequirement locates the requirement id the chain starts from.
// For a test-case query the sources are tried in a fixed order: the
// VERIFIED_BY edge pointing at the test case, then the supplied
// test-case payload's derived_from. The winning source is tagged on
// the result.
func anchorRequirement(query graphModel.TraceQuery, g *graphModel.Graph, testCases []docModel.TestCase) (string, string, error) {
	if query.RequirementId != "" {
		return query.RequirementId, graphModel.TraceSourceDirect, nil
	}

	for _, e := range g.Edges {
		if e.Relation == docModel.VerifiedBy && e.To == query.TestCaseId {
			return e.From, graphModel.TraceSourceGraphEdges, nil
		}
	}
	for _, tc := range testCases {
		if tc.TestId == query.TestCaseId && tc.DerivedFrom != "" {
			return tc.DerivedFrom, graphModel.TraceSourceTestCasePayload, nil
		}
	}
	return "", "", &NotFoundError{Kind: "test case", Id: query.TestCaseId}
}
