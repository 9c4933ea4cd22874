package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	PipelineInit    InternalStatus = "Init"
	Extracting      InternalStatus = "Extracting"
	Masking         InternalStatus = "Masking"
	Detecting       InternalStatus = "Detecting"
	PolicySearch    InternalStatus = "PolicySearch"
	Linking         InternalStatus = "Linking"
	GeneratingTests InternalStatus = "GeneratingTests"
	BuildingGraph   InternalStatus = "BuildingGraph"
	Analyzing       InternalStatus = "Analyzing"
	RedisCall       InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypePipeline     JobType = "Pipeline"
	JobTypePolicyIngest JobType = "PolicyIngest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentName string `json:"document_name,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
	UseMock      bool   `json:"use_mock,omitempty"`

	// Policy ingest jobs only.
	StandardRef string `json:"standard_ref,omitempty"`

	IngestedPassages int `json:"ingested_passages,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
