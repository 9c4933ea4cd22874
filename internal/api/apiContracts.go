package api

import (
	"time"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status           string                       `json:"status"`
	CurrentStep      string                       `json:"current_step,omitempty"`
	Pipeline         *resultModel.PipelineResult  `json:"pipeline,omitempty"`
	IngestedPassages int                          `json:"ingested_passages,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type RecentRunsResponse struct {
	JobIds []string `json:"job_ids"`
}

// requests---------------------

type GraphRequest struct {
	Chunks    []docModel.Chunk    `json:"chunks" validate:"required"`
	TestCases []docModel.TestCase `json:"test_cases"`
}

type GraphResponse struct {
	Status string           `json:"status"`
	Graph  graphModel.Graph `json:"graph"`
}

// TraceRequest carries exactly one of RequirementId or TestCaseId. The
// graph is either inline or referenced by the job id of a stored run.
type TraceRequest struct {
	RequirementId string              `json:"requirement_id,omitempty"`
	TestCaseId    string              `json:"test_case_id,omitempty"`
	JobId         string              `json:"job_id,omitempty"`
	Graph         *graphModel.Graph   `json:"graph,omitempty"`
	TestCases     []docModel.TestCase `json:"test_cases,omitempty"`
}

type TraceResponse struct {
	Status string                  `json:"status"`
	Trace  *graphModel.TraceResult `json:"trace,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
