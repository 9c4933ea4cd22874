package resultModel

import (
	"context"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/graph"
)

// PipelineResult is the full output of one document run, persisted
// under the job id so status polls and trace queries can reach it.
type PipelineResult struct {
	JobId     string                `json:"job_id"`
	Document  string                `json:"document"`
	Chunks    []docModel.Chunk      `json:"chunks"`
	TestCases []docModel.TestCase   `json:"test_cases"`
	Graph     graphModel.Graph      `json:"graph"`
	Coverage  graph.CoverageReport  `json:"coverage"`
	Dashboard graph.Dashboard       `json:"dashboard"`
	Summary   PipelineSummary       `json:"summary"`
}

type PipelineSummary struct {
	TotalPages         int      `json:"total_pages"`
	TotalChunks        int      `json:"total_chunks"`
	RequirementsFound  int      `json:"requirements_found"`
	ComplianceFound    int      `json:"compliance_found"`
	TestCasesGenerated int      `json:"test_cases_generated"`
	PIIChunks          int      `json:"pii_chunks"`
	PIITypes           []string `json:"pii_types,omitempty"`
	PolicyMatches      int      `json:"policy_matches"`
	DurationMs         int64    `json:"duration_ms"`
}

type ResultStore interface {
	GetResult(ctx context.Context, jobId string) (PipelineResult, bool)
	SaveResult(ctx context.Context, result PipelineResult) error
	DeleteResult(ctx context.Context, jobId string)
	RecentRuns(ctx context.Context, count int) ([]string, error)
}
