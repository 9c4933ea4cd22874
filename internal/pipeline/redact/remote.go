package redact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go/v4"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/customHttpClient"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	MaskedText string   `json:"masked_text"`
	PIIFound   bool     `json:"pii_found"`
	PIITypes   []string `json:"pii_types"`
}

type remoteRedactor struct {
	endpoint string
	client   *http.Client
	fallback Redactor
	logger   *logger_i.Logger
}

// NewRemoteRedactor talks to an external DLP-style redaction service.
// Transient failures are retried; a dead service falls back to the
// regex masker so the pipeline keeps producing masked text.
func NewRemoteRedactor(endpoint string) Redactor {
	return &remoteRedactor{
		endpoint: endpoint,
		client:   customHttpClient.PooledClient(config.RedactRequestTimeout),
		fallback: NewRegexRedactor(),
		logger:   logger_i.NewLogger("Remote Redactor"),
	}
}

func (r *remoteRedactor) Mask(ctx context.Context, chunk docModel.Chunk) (docModel.Chunk, error) {
	var result remoteResponse

	err := retry.Do(
		func() error {
			return r.callOnce(ctx, chunk.Text, &result)
		},
		retry.Attempts(config.RedactRetryAttempts),
		retry.Delay(config.RedactRetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		r.logger.Warn("Remote redaction unavailable, falling back to regex masking", "chunk", chunk.ChunkId, "err", err)
		return r.fallback.Mask(ctx, chunk)
	}

	chunk.OriginalText = chunk.Text
	chunk.MaskedText = result.MaskedText
	chunk.PIIFound = result.PIIFound
	chunk.PIITypes = result.PIITypes
	return chunk, nil
}

func (r *remoteRedactor) callOnce(ctx context.Context, text string, out *remoteResponse) error {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("redaction service returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
