package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/data/redisStore"
	"github.com/akolanti/TraceGraph/internal/data/store"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisResultStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultStore := store.TestResultStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	result := resultModel.PipelineResult{
		JobId:    "job_xyz_789",
		Document: "payment-requirements.pdf",
		Summary: resultModel.PipelineSummary{
			TotalChunks:        3,
			RequirementsFound:  2,
			TestCasesGenerated: 4,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := resultStore.SaveResult(ctx, result); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}

		retrieved, found := resultStore.GetResult(ctx, result.JobId)
		if !found {
			t.Fatal("Result was saved but not found in Redis")
		}
		if retrieved.Document != result.Document {
			t.Errorf("Document mismatch! Got %s, want %s", retrieved.Document, result.Document)
		}
		if retrieved.Summary.TestCasesGenerated != result.Summary.TestCasesGenerated {
			t.Errorf("Summary mismatch! Got %d test cases, want %d",
				retrieved.Summary.TestCasesGenerated, result.Summary.TestCasesGenerated)
		}
	})

	t.Run("Get Non-Existent Result", func(t *testing.T) {
		_, found := resultStore.GetResult(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Recent runs index tracks saves in order", func(t *testing.T) {
		second := result
		second.JobId = "job_second"
		if err := resultStore.SaveResult(ctx, second); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}

		recent, err := resultStore.RecentRuns(ctx, 10)
		if err != nil {
			t.Fatalf("RecentRuns failed: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("Expected 2 indexed runs, got %d", len(recent))
		}
		if recent[0] != "job_xyz_789" || recent[1] != "job_second" {
			t.Errorf("Unexpected run order: %v", recent)
		}
	})

	t.Run("Recent runs respects count limit", func(t *testing.T) {
		recent, err := resultStore.RecentRuns(ctx, 1)
		if err != nil {
			t.Fatalf("RecentRuns failed: %v", err)
		}
		if len(recent) != 1 || recent[0] != "job_second" {
			t.Errorf("Expected only the latest run, got %v", recent)
		}
	})

	t.Run("Delete Result", func(t *testing.T) {
		resultStore.DeleteResult(ctx, result.JobId)
		if mr.Exists(result.JobId) {
			t.Error("Result still exists in Redis after DeleteResult call")
		}
	})
}
