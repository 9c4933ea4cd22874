package extract

import (
	"context"
	"fmt"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

type RawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Extractor is the document-extraction collaborator boundary. The
// pipeline only needs page-scoped chunks with provenance; a remote
// document-AI service can replace the local implementation behind it.
type Extractor interface {
	Extract(ctx context.Context, docPath string, docName string) ([]docModel.Chunk, error)
}

type localExtractor struct {
	logger *logger_i.Logger
}

func NewLocalExtractor() Extractor {
	return &localExtractor{logger: logger_i.NewLogger("Document Extraction")}
}

func (e *localExtractor) Extract(ctx context.Context, docPath string, docName string) ([]docModel.Chunk, error) {
	e.logger.Debug("Processing document", "filename", docName, "path", docPath)

	docType := getDocType(docPath)
	if docType == docModel.ERR {
		return nil, fmt.Errorf("unsupported document type for %s", docName)
	}

	pages, err := extractText(docPath, docType)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", docName, err)
	}
	e.logger.Debug("Processing document", "Number of raw pages: ", len(pages))

	chunks := PrepareChunks(pages, docType)
	e.logger.Debug("Processing document", "Number of chunks: ", len(chunks))
	return chunks, nil
}
