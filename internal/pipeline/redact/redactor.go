package redact

import (
	"context"
	"fmt"
	"regexp"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

// Redactor is the PII-redaction collaborator boundary. Mask fills
// masked_text, pii_found and pii_types on the chunk; the original text
// is preserved in original_text.
type Redactor interface {
	Mask(ctx context.Context, chunk docModel.Chunk) (docModel.Chunk, error)
}

type infoTypePattern struct {
	infoType string
	pattern  *regexp.Regexp
}

// ordered so longer matches (cards before generic numbers) win first
var infoTypePatterns = []infoTypePattern{
	{"EMAIL_ADDRESS", regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{"CREDIT_CARD_NUMBER", regexp.MustCompile(`\b(?:\d[ \-]?){13,16}\b`)},
	{"IBAN_CODE", regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)},
	{"US_SOCIAL_SECURITY_NUMBER", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"PHONE_NUMBER", regexp.MustCompile(`\+?\d{1,3}[ \-.]?\(?\d{2,4}\)?[ \-.]?\d{3,4}[ \-.]?\d{3,4}\b`)},
	{"PERSON_NAME", regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)},
}

type regexRedactor struct {
	logger *logger_i.Logger
}

// NewRegexRedactor is the built-in masker, used when no remote
// redaction service is configured. Weaker than a real DLP service but
// it keeps the GDPR mode usable offline.
func NewRegexRedactor() Redactor {
	return &regexRedactor{logger: logger_i.NewLogger("Regex Redactor")}
}

func (r *regexRedactor) Mask(ctx context.Context, chunk docModel.Chunk) (docModel.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return chunk, err
	}

	masked := chunk.Text
	var types []string
	for _, entry := range infoTypePatterns {
		if !entry.pattern.MatchString(masked) {
			continue
		}
		masked = entry.pattern.ReplaceAllString(masked, fmt.Sprintf("[%s]", entry.infoType))
		types = append(types, entry.infoType)
	}

	chunk.OriginalText = chunk.Text
	chunk.MaskedText = masked
	chunk.PIIFound = len(types) > 0
	chunk.PIITypes = types
	if chunk.PIIFound {
		r.logger.Debug("Masked PII", "chunk", chunk.ChunkId, "types", types)
	}
	return chunk, nil
}

// NoopRedactor passes text through unmasked, for pipelines running
// with GDPR mode off.
type NoopRedactor struct{}

func (NoopRedactor) Mask(ctx context.Context, chunk docModel.Chunk) (docModel.Chunk, error) {
	chunk.OriginalText = chunk.Text
	chunk.MaskedText = chunk.Text
	return chunk, nil
}
