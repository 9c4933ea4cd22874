package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/akolanti/TraceGraph/internal/adapter/utils"
	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/domain/jobModel"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/akolanti/TraceGraph/internal/graph"
	"github.com/akolanti/TraceGraph/internal/metrics"
	"github.com/akolanti/TraceGraph/internal/pipeline/detect"
	"github.com/akolanti/TraceGraph/internal/pipeline/extract"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

var errNoText = errors.New("no extractable text in document")

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessDocument", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeExtractStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]docModel.Chunk, error) {
	*job = logOutput(*job, jobModel.Extracting, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	return s.extractor.Extract(ctx, job.JobPayload.DocumentPath, job.JobPayload.DocumentName)
}

func (s *service) executeMaskStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk) []docModel.Chunk {
	*job = logOutput(*job, jobModel.Masking, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("pii_masking", time.Since(start)) }()

	s.forEachChunk(ctx, chunks, func(i int) {
		masked, err := s.redactor.Mask(ctx, chunks[i])
		if err != nil {
			log.Warn("Masking failed, keeping raw text", "chunk", chunks[i].ChunkId, "err", err)
			return
		}
		chunks[i] = masked
	})
	return chunks
}

func (s *service) executeDetectStep(log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk) []docModel.Chunk {
	*job = logOutput(*job, jobModel.Detecting, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("detection", time.Since(start)) }()

	return detect.AnnotateChunks(chunks)
}

func (s *service) executeSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk) []docModel.Chunk {
	*job = logOutput(*job, jobModel.PolicySearch, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("policy_search", time.Since(start)) }()

	s.forEachChunk(ctx, chunks, func(i int) {
		matches, err := s.searcher.FindMatches(ctx, chunks[i])
		if err != nil {
			log.Warn("Policy search failed for chunk", "chunk", chunks[i].ChunkId, "err", err)
			return
		}
		chunks[i].PolicyMatches = matches
	})
	return chunks
}

func (s *service) executeLinkStep(log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk) []docModel.Chunk {
	*job = logOutput(*job, jobModel.Linking, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("relationship_linking", time.Since(start)) }()

	return detect.LinkChunks(chunks)
}

func (s *service) executeTestGenStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk) ([]docModel.TestCase, error) {
	*job = logOutput(*job, jobModel.GeneratingTests, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("test_generation", time.Since(start)) }()

	return s.generator.GenerateSuite(ctx, chunks)
}

func (s *service) executeGraphStep(log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk, testCases []docModel.TestCase) graphModel.Graph {
	*job = logOutput(*job, jobModel.BuildingGraph, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("graph_build", time.Since(start)) }()

	builtGraph := graph.Build(chunks, testCases)
	metrics.RecordGraphSize(builtGraph.Metadata.TotalNodes, builtGraph.Metadata.TotalEdges)
	return builtGraph
}

func (s *service) executeAnalyzeStep(log *logger_i.Logger, job *jobModel.Job, chunks []docModel.Chunk, testCases []docModel.TestCase, builtGraph graphModel.Graph) resultModel.PipelineResult {
	*job = logOutput(*job, jobModel.Analyzing, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("coverage_analysis", time.Since(start)) }()

	return resultModel.PipelineResult{
		Chunks:    chunks,
		TestCases: testCases,
		Graph:     builtGraph,
		Coverage:  graph.AnalyzeCoverage(&builtGraph, testCases),
		Dashboard: graph.BuildDashboard(&builtGraph),
		Summary:   summarize(chunks, testCases),
	}
}

func (s *service) executePolicyIngestStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (int, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("policy_ingestion", time.Since(start)) }()

	pages, docType, err := extract.ExtractPolicyPages(job.JobPayload.DocumentPath)
	if err != nil {
		return 0, err
	}

	doc := docModel.Document{
		Id:                  job.Id,
		Name:                job.JobPayload.DocumentName,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}
	policyChunks := extract.PreparePolicyChunks(pages, doc, job.JobPayload.StandardRef, utils.GetNewUUID)

	log.Info("Ingesting policy corpus", "passages", len(policyChunks))
	return s.searcher.IngestCorpus(ctx, policyChunks)
}

// forEachChunk runs work over chunk indexes with bounded concurrency.
// Workers write only to their own index, so no locking is needed.
func (s *service) forEachChunk(ctx context.Context, chunks []docModel.Chunk, work func(i int)) {
	sem := make(chan struct{}, config.MaxChunkConcurrency)
	var wg sync.WaitGroup

	for i := range chunks {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			work(i)
		}(i)
	}
	wg.Wait()
}

func summarize(chunks []docModel.Chunk, testCases []docModel.TestCase) resultModel.PipelineSummary {
	summary := resultModel.PipelineSummary{
		TotalChunks:        len(chunks),
		TestCasesGenerated: len(testCases),
	}

	pages := make(map[int]bool)
	piiTypes := make(map[string]bool)
	for _, chunk := range chunks {
		pages[chunk.PageNumber] = true
		summary.RequirementsFound += len(chunk.DetectedRequirements)
		summary.ComplianceFound += len(chunk.DetectedCompliance)
		summary.PolicyMatches += len(chunk.PolicyMatches)
		if chunk.PIIFound {
			summary.PIIChunks++
		}
		for _, t := range chunk.PIITypes {
			if !piiTypes[t] {
				piiTypes[t] = true
				summary.PIITypes = append(summary.PIITypes, t)
			}
		}
	}
	summary.TotalPages = len(pages)
	return summary
}
