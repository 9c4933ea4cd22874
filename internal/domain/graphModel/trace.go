package graphModel

// TraceQuery must carry exactly one of RequirementId or TestCaseId.
type TraceQuery struct {
	RequirementId string `json:"requirement_id,omitempty"`
	TestCaseId    string `json:"test_case_id,omitempty"`
}

// sources the resolver can pick the anchor requirement from, tried in
// a fixed order with the winner tagged on the result
const (
	TraceSourceGraphEdges      = "graph_edges"
	TraceSourceTestCasePayload = "test_case_payload"
	TraceSourceDirect          = "requirement_id"
)

type ChainEntry struct {
	RequirementId          string `json:"requirement_id"`
	TestCaseId             string `json:"test_case_id,omitempty"`
	TestCaseTitle          string `json:"test_case_title,omitempty"`
	ComplianceStandardId   string `json:"compliance_standard_id"`
	ComplianceStandardName string `json:"compliance_standard_name"`
	ComplianceStandardType string `json:"compliance_standard_type"`
	DirectRelationship     bool   `json:"direct_relationship"`
}

type TraceMetadata struct {
	TotalTestCases           int `json:"total_test_cases"`
	TotalComplianceStandards int `json:"total_compliance_standards"`
	ChainPaths               int `json:"chain_paths"`
}

type TraceResult struct {
	Requirement         Node          `json:"requirement"`
	LinkedTestCases     []Node        `json:"linked_test_cases"`
	ComplianceStandards []Node        `json:"compliance_standards"`
	TraceabilityChain   []ChainEntry  `json:"traceability_chain"`
	Metadata            TraceMetadata `json:"metadata"`
	SourceUsed          string        `json:"source_used"`
}
