package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/graph"
	"github.com/akolanti/TraceGraph/internal/graph/trace"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

type BuildGraphInput struct {
	Chunks    []docModel.Chunk    `json:"chunks" jsonschema:"annotated document chunks"`
	TestCases []docModel.TestCase `json:"test_cases,omitempty" jsonschema:"generated test cases"`
}

type BuildGraphOutput struct {
	Graph graphModel.Graph `json:"graph"`
}

type ResolveTraceInput struct {
	RequirementId string              `json:"requirement_id,omitempty" jsonschema:"requirement id to trace, mutually exclusive with test_case_id"`
	TestCaseId    string              `json:"test_case_id,omitempty" jsonschema:"test case id to trace, mutually exclusive with requirement_id"`
	Graph         graphModel.Graph    `json:"graph" jsonschema:"the graph to resolve against"`
	TestCases     []docModel.TestCase `json:"test_cases,omitempty" jsonschema:"test case payloads, used as a fallback anchor source"`
}

type ResolveTraceOutput struct {
	Trace *graphModel.TraceResult `json:"trace"`
}

// Run serves the graph builder and trace resolver as tools over stdio,
// for agent hosts. Blocks until the client disconnects.
func Run(ctx context.Context) error {
	logger := logger_i.NewLogger("MCP Server")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tracegraph",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Build a requirement traceability knowledge graph from annotated document chunks and test cases.",
	}, buildGraphTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_trace",
		Description: "Resolve the traceability chain for a requirement or test case against a built graph.",
	}, resolveTraceTool)

	logger.Info("Serving tools over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func buildGraphTool(ctx context.Context, req *mcp.CallToolRequest, in BuildGraphInput) (*mcp.CallToolResult, BuildGraphOutput, error) {
	built := graph.Build(in.Chunks, in.TestCases)
	return nil, BuildGraphOutput{Graph: built}, nil
}

func resolveTraceTool(ctx context.Context, req *mcp.CallToolRequest, in ResolveTraceInput) (*mcp.CallToolResult, ResolveTraceOutput, error) {
	query := graphModel.TraceQuery{
		RequirementId: in.RequirementId,
		TestCaseId:    in.TestCaseId,
	}
	result, err := trace.Resolve(query, &in.Graph, in.TestCases)
	if err != nil {
		return nil, ResolveTraceOutput{}, err
	}
	return nil, ResolveTraceOutput{Trace: result}, nil
}
