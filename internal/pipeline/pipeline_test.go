package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/jobModel"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
)

type mockExtractor struct {
	chunks []docModel.Chunk
	err    error
	calls  int
}

func (m *mockExtractor) Extract(ctx context.Context, docPath string, docName string) ([]docModel.Chunk, error) {
	m.calls++
	return m.chunks, m.err
}

type mockRedactor struct {
	err error
}

func (m *mockRedactor) Mask(ctx context.Context, chunk docModel.Chunk) (docModel.Chunk, error) {
	if m.err != nil {
		return chunk, m.err
	}
	chunk.OriginalText = chunk.Text
	chunk.MaskedText = chunk.Text
	return chunk, nil
}

type mockSearcher struct {
	matches  []docModel.PolicyMatch
	ingested int
	err      error
}

func (m *mockSearcher) FindMatches(ctx context.Context, chunk docModel.Chunk) ([]docModel.PolicyMatch, error) {
	return m.matches, m.err
}

func (m *mockSearcher) IngestCorpus(ctx context.Context, chunks []docModel.DocChunk) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.ingested = len(chunks)
	return m.ingested, nil
}

type mockGenerator struct {
	tests []docModel.TestCase
	err   error
}

func (m *mockGenerator) GenerateSuite(ctx context.Context, chunks []docModel.Chunk) ([]docModel.TestCase, error) {
	return m.tests, m.err
}

type mockResultStore struct {
	saved   []resultModel.PipelineResult
	saveErr error
}

func (m *mockResultStore) GetResult(ctx context.Context, jobId string) (resultModel.PipelineResult, bool) {
	for _, r := range m.saved {
		if r.JobId == jobId {
			return r, true
		}
	}
	return resultModel.PipelineResult{}, false
}

func (m *mockResultStore) SaveResult(ctx context.Context, result resultModel.PipelineResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, result)
	return nil
}

func (m *mockResultStore) DeleteResult(ctx context.Context, jobId string) {}

func (m *mockResultStore) RecentRuns(ctx context.Context, count int) ([]string, error) {
	return nil, nil
}

func requirementChunks() []docModel.Chunk {
	return []docModel.Chunk{
		{
			ChunkId:    "CHUNK_001",
			PageNumber: 1,
			Text:       "The system shall encrypt all records per GDPR.",
			Confidence: 0.95,
		},
	}
}

func pipelineJob() jobModel.Job {
	return jobModel.Job{
		Id:      "job-1",
		JobType: jobModel.JobTypePipeline,
		JobPayload: jobModel.JobPayload{
			DocumentName: "requirements.pdf",
			DocumentPath: "/tmp/requirements.pdf",
		},
	}
}

func TestProcessDocument_HappyPath(t *testing.T) {
	store := &mockResultStore{}
	svc := NewService(
		&mockExtractor{chunks: requirementChunks()},
		&mockRedactor{},
		&mockSearcher{},
		&mockGenerator{tests: []docModel.TestCase{
			{TestId: "TC_001", Title: "Encryption check", Category: "Security Tests", Priority: "High", DerivedFrom: "REQ-001"},
		}},
		store,
	)

	out := svc.ProcessDocument(context.Background(), pipelineJob())

	if out.Status == jobModel.JobStatusError {
		t.Fatalf("job errored: %+v", out.Error)
	}
	if out.CurrentStep != jobModel.Complete {
		t.Errorf("step = %s, want %s", out.CurrentStep, jobModel.Complete)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved results = %d, want 1", len(store.saved))
	}

	result := store.saved[0]
	if result.JobId != "job-1" || result.Document != "requirements.pdf" {
		t.Errorf("result identity wrong: %s / %s", result.JobId, result.Document)
	}
	if result.Summary.RequirementsFound == 0 {
		t.Error("no requirements detected from the chunk text")
	}
	if result.Summary.ComplianceFound == 0 {
		t.Error("GDPR mention not detected")
	}
	if result.Graph.Metadata.TotalNodes == 0 {
		t.Error("graph was not built")
	}
	if len(result.TestCases) != 1 {
		t.Errorf("test cases = %d, want 1", len(result.TestCases))
	}
}

func TestProcessDocument_PolicyMatchesFlowIntoGraph(t *testing.T) {
	store := &mockResultStore{}
	searcher := &mockSearcher{matches: []docModel.PolicyMatch{
		{PolicyId: "POL_01", Snippet: "encryption required", Similarity: 0.9, StandardRef: "HIPAA:45-CFR-164"},
	}}
	svc := NewService(&mockExtractor{chunks: requirementChunks()}, &mockRedactor{}, searcher, &mockGenerator{}, store)

	out := svc.ProcessDocument(context.Background(), pipelineJob())
	if out.Status == jobModel.JobStatusError {
		t.Fatalf("job errored: %+v", out.Error)
	}

	result := store.saved[0]
	if result.Summary.PolicyMatches == 0 {
		t.Fatal("policy matches missing from the summary")
	}
	// relationship synthesis runs after search, so the match becomes an edge
	if _, ok := result.Graph.NodeById("HIPAA:45-CFR-164"); !ok {
		t.Error("policy match standard missing from the graph")
	}
	var governed bool
	for _, e := range result.Graph.Edges {
		if e.Relation == docModel.GovernedBy && e.To == "HIPAA:45-CFR-164" {
			governed = true
		}
	}
	if !governed {
		t.Error("no governed_by edge from the policy match")
	}
}

func TestProcessDocument_ExtractionFailure(t *testing.T) {
	svc := NewService(&mockExtractor{err: errors.New("corrupt file")}, &mockRedactor{}, &mockSearcher{}, &mockGenerator{}, &mockResultStore{})

	out := svc.ProcessDocument(context.Background(), pipelineJob())
	if out.Status != jobModel.JobStatusError {
		t.Fatal("expected error status")
	}
	if out.Error.Retry {
		t.Error("extraction failures are not retryable")
	}
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	svc := NewService(&mockExtractor{chunks: nil}, &mockRedactor{}, &mockSearcher{}, &mockGenerator{}, &mockResultStore{})

	out := svc.ProcessDocument(context.Background(), pipelineJob())
	if out.Status != jobModel.JobStatusError {
		t.Fatal("expected error status for a document with no text")
	}
}

func TestProcessDocument_TestGenFailure(t *testing.T) {
	svc := NewService(&mockExtractor{chunks: requirementChunks()}, &mockRedactor{}, &mockSearcher{},
		&mockGenerator{err: errors.New("model quota exhausted")}, &mockResultStore{})

	out := svc.ProcessDocument(context.Background(), pipelineJob())
	if out.Status != jobModel.JobStatusError {
		t.Fatal("expected error status")
	}
	if !out.Error.Retry {
		t.Error("test generation failures should be retryable")
	}
}

func TestProcessDocument_PersistenceFailure(t *testing.T) {
	svc := NewService(&mockExtractor{chunks: requirementChunks()}, &mockRedactor{}, &mockSearcher{},
		&mockGenerator{}, &mockResultStore{saveErr: errors.New("redis down")})

	out := svc.ProcessDocument(context.Background(), pipelineJob())
	if out.Status != jobModel.JobStatusError {
		t.Fatal("expected error status when the result cannot be saved")
	}
}

func TestProcessDocument_MockMode(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("should not be called")}
	store := &mockResultStore{}
	svc := NewService(extractor, &mockRedactor{}, &mockSearcher{}, &mockGenerator{}, store)

	job := pipelineJob()
	job.JobPayload.UseMock = true

	out := svc.ProcessDocument(context.Background(), job)
	if out.Status == jobModel.JobStatusError {
		t.Fatalf("mock run errored: %+v", out.Error)
	}
	if extractor.calls != 0 {
		t.Error("mock mode hit the extractor")
	}
	result := store.saved[0]
	if len(result.Chunks) == 0 || len(result.TestCases) == 0 {
		t.Error("mock run produced an empty result")
	}
	if result.Graph.Metadata.TotalNodes == 0 {
		t.Error("mock run built no graph")
	}
}

func TestIngestPolicies(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.txt")
	content := "Personal data must be erased on request.\n\nRetention is limited to stated purposes."
	if err := os.WriteFile(policyPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	searcher := &mockSearcher{}
	svc := NewService(&mockExtractor{}, &mockRedactor{}, searcher, &mockGenerator{}, &mockResultStore{})

	job := jobModel.Job{
		Id:      "ingest-1",
		JobType: jobModel.JobTypePolicyIngest,
		JobPayload: jobModel.JobPayload{
			DocumentName: "policy.txt",
			DocumentPath: policyPath,
			StandardRef:  "GDPR:2016/679",
		},
	}

	out := svc.IngestPolicies(context.Background(), job)
	if out.Status == jobModel.JobStatusError {
		t.Fatalf("ingest errored: %+v", out.Error)
	}
	if out.CurrentStep != jobModel.Complete {
		t.Errorf("step = %s, want %s", out.CurrentStep, jobModel.Complete)
	}
	if out.JobPayload.IngestedPassages == 0 || searcher.ingested == 0 {
		t.Error("no passages ingested")
	}
}

func TestIngestPolicies_MissingFile(t *testing.T) {
	svc := NewService(&mockExtractor{}, &mockRedactor{}, &mockSearcher{}, &mockGenerator{}, &mockResultStore{})

	job := jobModel.Job{
		Id:         "ingest-2",
		JobType:    jobModel.JobTypePolicyIngest,
		JobPayload: jobModel.JobPayload{DocumentPath: "/nonexistent/policy.txt"},
	}

	out := svc.IngestPolicies(context.Background(), job)
	if out.Status != jobModel.JobStatusError {
		t.Fatal("expected error status for a missing document")
	}
}
