package search

import (
	"context"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/pipeline/search/embedding"
	"github.com/akolanti/TraceGraph/internal/pipeline/search/embedding/googleEmbedding"
	"github.com/akolanti/TraceGraph/internal/pipeline/search/qdrantDB"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

// PolicySearcher links extracted chunks to the ingested policy corpus.
// A searcher that cannot reach its backends reports zero matches rather
// than failing the pipeline.
type PolicySearcher interface {
	FindMatches(ctx context.Context, chunk docModel.Chunk) ([]docModel.PolicyMatch, error)
	IngestCorpus(ctx context.Context, chunks []docModel.DocChunk) (int, error)
}

type policySearch struct {
	embedder embedding.Embedder
	db       *qdrantDB.ClientHolder
	logger   *logger_i.Logger
}

func NewPolicySearcher(ctx context.Context) PolicySearcher {
	log := logger_i.NewLogger("Policy Search")

	embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.EmbeddingModelName, config.GeminiApiKey())
	db := qdrantDB.GetQuadrantClient(ctx)

	if embedder == nil || db == nil {
		log.Warn("Policy search backends unavailable, matches disabled")
		return &noopSearch{}
	}

	return &policySearch{
		embedder: embedder,
		db:       db,
		logger:   log,
	}
}

func (s *policySearch) FindMatches(ctx context.Context, chunk docModel.Chunk) ([]docModel.PolicyMatch, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chunk", chunk.ChunkId)

	vector, err := s.embedder.GetEmbedding(ctx, chunk.EffectiveText())
	if err != nil {
		log.Warn("Embedding failed, chunk gets no policy matches", "err", err)
		return nil, nil
	}

	hits, err := s.db.Search(ctx, vector)
	if err != nil {
		log.Warn("Vector search failed, chunk gets no policy matches", "err", err)
		return nil, nil
	}

	var matches []docModel.PolicyMatch
	for _, hit := range hits {
		if hit.Similarity < config.PolicyMatchMinSimilarity {
			continue
		}
		matches = append(matches, hit)
	}
	return matches, nil
}

func (s *policySearch) IngestCorpus(ctx context.Context, chunks []docModel.DocChunk) (int, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Chunk
	}

	isHuge := len(chunks) > config.HugeCorpusThreshold
	vectors, err := s.embedder.BatchEmbedding(ctx, texts, isHuge)
	if err != nil {
		return 0, err
	}

	// Batch jobs can drop individual passages. Keep only the pairs
	// that came back with a vector.
	kept := make([]docModel.DocChunk, 0, len(chunks))
	keptVectors := make([][]float32, 0, len(vectors))
	for i, vector := range vectors {
		if i >= len(chunks) || vector == nil {
			continue
		}
		kept = append(kept, chunks[i])
		keptVectors = append(keptVectors, vector)
	}

	if err := s.db.UpsertBatch(ctx, config.PolicyCollectionName, kept, keptVectors); err != nil {
		return 0, err
	}

	log.Info("Policy corpus ingested", "passages", len(kept))
	return len(kept), nil
}

type noopSearch struct{}

func (n *noopSearch) FindMatches(ctx context.Context, chunk docModel.Chunk) ([]docModel.PolicyMatch, error) {
	return nil, nil
}

func (n *noopSearch) IngestCorpus(ctx context.Context, chunks []docModel.DocChunk) (int, error) {
	return 0, nil
}
