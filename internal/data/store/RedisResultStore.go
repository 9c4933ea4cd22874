package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/data/redisStore"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

type RedisResultStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisResultStore(ctx context.Context) *RedisResultStore {
	return &RedisResultStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisResultStore),
		logger: logger_i.NewLogger("ResultStore"),
	}
}

func (s *RedisResultStore) SaveResult(ctx context.Context, result resultModel.PipelineResult) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", result.JobId)
	log.Debug("saving pipeline result")
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, result.JobId, data, config.RedisResultStoreTTL)
	if err != nil {
		return err
	}

	// keep a rolling index of recent runs for operational inspection
	if err := s.store.ListPush(ctx, config.RecentResultsKey, result.JobId); err != nil {
		log.Warn("Failed to index recent result", "err", err)
	}

	log.Debug("Saved pipeline result to Redis")
	return nil
}

func (s *RedisResultStore) GetResult(ctx context.Context, jobId string) (resultModel.PipelineResult, bool) {
	var result resultModel.PipelineResult
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	log.Debug("getting pipeline result")
	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return result, false
	} else if err != nil {
		return result, false
	}

	err = json.Unmarshal([]byte(val), &result)
	if err != nil {
		return result, false
	}

	log.Debug("Pipeline result found in Redis")
	return result, true
}

func (s *RedisResultStore) DeleteResult(ctx context.Context, jobId string) {
	err := s.store.Del(ctx, jobId)
	if err != nil {
		s.logger.Error(jobId, "jobId", ": Error deleting result from Redis")
		return
	}
	s.logger.Debug("Result deleted from Redis", "jobId:", jobId)
}

// RecentRuns lists the most recently persisted job ids, newest last.
func (s *RedisResultStore) RecentRuns(ctx context.Context, count int) ([]string, error) {
	return s.store.ListGetRecent(ctx, config.RecentResultsKey, count)
}

func TestResultStore(store *redisStore.Store) *RedisResultStore {
	return &RedisResultStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
