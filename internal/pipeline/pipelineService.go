package pipeline

import (
	"context"
	"time"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/jobModel"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/akolanti/TraceGraph/internal/pipeline/extract"
	"github.com/akolanti/TraceGraph/internal/pipeline/redact"
	"github.com/akolanti/TraceGraph/internal/pipeline/search"
	"github.com/akolanti/TraceGraph/internal/pipeline/testgen"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

// Service Worker will only call this service - it doesn't need to know
// the extractor, the redactor or the model backends.
type Service interface {
	ProcessDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestPolicies(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	extractor   extract.Extractor
	redactor    redact.Redactor
	searcher    search.PolicySearcher
	generator   testgen.Generator
	resultStore resultModel.ResultStore
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(ex extract.Extractor, rd redact.Redactor, se search.PolicySearcher, gen testgen.Generator, results resultModel.ResultStore) Service {
	return &service{
		extractor:   ex,
		redactor:    rd,
		searcher:    se,
		generator:   gen,
		resultStore: results,
		logger:      logger_i.NewLogger("Pipeline Service :"),
	}
}

func (s *service) ProcessDocument(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.PipelineTimeout)
	defer cancel()

	start := time.Now()

	var chunks []docModel.Chunk
	var err error

	if jobt.JobPayload.UseMock {
		inMethodLogger.Info("Mock mode, using canned document")
		chunks = mockChunks()
		jobt.CurrentStep = jobModel.Detecting
	} else {
		// Extraction
		chunks, err = s.executeExtractStep(processContext, inMethodLogger, &jobt)
		if err != nil {
			return s.jobError(jobt, err, "EXTRACTION_FAILURE", false)
		}
		if len(chunks) == 0 {
			return s.jobError(jobt, errNoText, "EXTRACTION_FAILURE", false)
		}

		// PII Masking
		chunks = s.executeMaskStep(processContext, inMethodLogger, &jobt, chunks)
	}

	// Requirement + compliance detection
	chunks = s.executeDetectStep(inMethodLogger, &jobt, chunks)

	// Policy corpus search
	chunks = s.executeSearchStep(processContext, inMethodLogger, &jobt, chunks)

	// Relationship synthesis, after search so policy matches are linked
	chunks = s.executeLinkStep(inMethodLogger, &jobt, chunks)

	// Test generation
	var testCases []docModel.TestCase
	if jobt.JobPayload.UseMock {
		testCases = mockTestCases()
	} else {
		testCases, err = s.executeTestGenStep(processContext, inMethodLogger, &jobt, chunks)
		if err != nil {
			return s.jobError(jobt, err, "TEST_GENERATION_FAILURE", true)
		}
	}

	// Knowledge graph
	builtGraph := s.executeGraphStep(inMethodLogger, &jobt, chunks, testCases)

	// Coverage + dashboard
	result := s.executeAnalyzeStep(inMethodLogger, &jobt, chunks, testCases, builtGraph)
	result.JobId = jobt.Id
	result.Document = jobt.JobPayload.DocumentName
	result.Summary.DurationMs = time.Since(start).Milliseconds()

	if err := s.resultStore.SaveResult(ctx, result); err != nil {
		return s.jobError(jobt, err, "RESULT_PERSISTENCE_FAILURE", true)
	}

	jobt.CurrentStep = jobModel.Complete
	return jobt
}

func (s *service) IngestPolicies(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.PipelineTimeout)
	defer cancel()

	jobt.CurrentStep = jobModel.IngestProcessing

	count, err := s.executePolicyIngestStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "POLICY_INGESTION_FAILURE", true)
	}

	jobt.JobPayload.IngestedPassages = count
	jobt.CurrentStep = jobModel.Complete
	return jobt
}
