package store

import (
	"context"
	"sync"

	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

var inMemResultLogger = logger_i.NewLogger("InMem ResultStore")

type InMemoryResultStore struct {
	resultMutex *sync.RWMutex
	resultMap   map[string]resultModel.PipelineResult
	runOrder    []string
}

func InitInMemoryResultStore() *InMemoryResultStore {
	return &InMemoryResultStore{
		resultMutex: new(sync.RWMutex),
		resultMap:   make(map[string]resultModel.PipelineResult),
	}
}

func (store *InMemoryResultStore) SaveResult(ctx context.Context, result resultModel.PipelineResult) error {
	store.resultMutex.Lock()
	defer store.resultMutex.Unlock()
	if _, seen := store.resultMap[result.JobId]; !seen {
		store.runOrder = append(store.runOrder, result.JobId)
	}
	store.resultMap[result.JobId] = result
	inMemResultLogger.Info(result.JobId, " : Saved pipeline result to store")
	return nil
}

func (store *InMemoryResultStore) GetResult(ctx context.Context, jobId string) (resultModel.PipelineResult, bool) {
	store.resultMutex.RLock()
	defer store.resultMutex.RUnlock()
	result, found := store.resultMap[jobId]
	inMemResultLogger.Info(jobId, " : Is result found :", found)
	return result, found
}

func (store *InMemoryResultStore) DeleteResult(ctx context.Context, jobId string) {
	store.resultMutex.Lock()
	defer store.resultMutex.Unlock()
	delete(store.resultMap, jobId)
}

// RecentRuns returns up to count job ids in save order, oldest first.
func (store *InMemoryResultStore) RecentRuns(ctx context.Context, count int) ([]string, error) {
	store.resultMutex.RLock()
	defer store.resultMutex.RUnlock()
	start := len(store.runOrder) - count
	if start < 0 {
		start = 0
	}
	recent := make([]string, len(store.runOrder)-start)
	copy(recent, store.runOrder[start:])
	return recent, nil
}
