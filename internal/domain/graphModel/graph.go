package graphModel

import "github.com/akolanti/TraceGraph/internal/domain/docModel"

type NodeType string

const (
	NodeRequirement        NodeType = "REQUIREMENT"
	NodeComplianceStandard NodeType = "COMPLIANCE_STANDARD"
	NodeTestCase           NodeType = "TEST_CASE"
)

// node provenance tags
const (
	SourceDetectedRequirements = "detected_requirements"
	SourceDetectedCompliance   = "detected_compliance"
	SourceChunkRelationships   = "chunk_relationships"
	SourceTestGeneration       = "test_generation"
)

type Node struct {
	Id           string   `json:"id"`
	Type         NodeType `json:"type"`
	Title        string   `json:"title"`
	Text         string   `json:"text,omitempty"`
	Confidence   float64  `json:"confidence"`
	PageNumber   int      `json:"page_number,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Category     string   `json:"category,omitempty"`
	StandardType string   `json:"standard_type,omitempty"`
	Source       string   `json:"source,omitempty"`
}

type Edge struct {
	Id         string                `json:"id"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Relation   docModel.RelationType `json:"relation"`
	Confidence float64               `json:"confidence"`
	Source     string                `json:"source"`
	Page       int                   `json:"page,omitempty"`
}

type NodeDegree struct {
	NodeId      string `json:"node_id"`
	Connections int    `json:"connections"`
}

// Metadata is derived from the final node and edge sets, never stored.
type Metadata struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	RequirementNodes  int            `json:"requirement_nodes"`
	ComplianceNodes   int            `json:"compliance_nodes"`
	TestCaseNodes     int            `json:"test_case_nodes"`
	GraphDensity      float64        `json:"graph_density"`
	AvgConfidence     float64        `json:"avg_confidence"`
	CrossPageLinks    int            `json:"cross_page_links"`
	ComplianceByType  map[string]int `json:"compliance_by_type"`
	EdgesByRelation   map[string]int `json:"edges_by_relation"`
	TopConnectedNodes []NodeDegree   `json:"top_connected_nodes"`
	Warnings          []string       `json:"warnings,omitempty"`
}

type Graph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// NodeById does a linear scan; graphs here are request-sized, an index
// is not worth carrying across the wire.
func (g *Graph) NodeById(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Id == id {
			return n, true
		}
	}
	return Node{}, false
}
