package testgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/avast/retry-go/v4"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

// Generator turns annotated chunks into a test suite with requirement
// traceability. Every detected requirement id ends up in at least one
// test case's derived_from, no matter which backend produced the suite.
type Generator interface {
	GenerateSuite(ctx context.Context, chunks []docModel.Chunk) ([]docModel.TestCase, error)
}

type generator struct {
	provider Provider
	logger   *logger_i.Logger
}

// NewGenerator wraps a completion backend. A nil provider degrades to
// the deterministic rule-based suite.
func NewGenerator(provider Provider) Generator {
	return &generator{
		provider: provider,
		logger:   logger_i.NewLogger("Test Generation"),
	}
}

func (g *generator) GenerateSuite(ctx context.Context, chunks []docModel.Chunk) ([]docModel.TestCase, error) {
	log := g.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if g.provider == nil {
		log.Info("No model backend configured, using rule-based suite")
		return fallbackSuite(chunks), nil
	}

	prompt := buildPrompt(chunks)
	if prompt == "" {
		log.Warn("No requirements detected, nothing to generate from")
		return nil, nil
	}

	tests, err := retry.DoWithData(
		func() ([]docModel.TestCase, error) {
			raw, err := g.provider.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return parseSuite(raw)
		},
		retry.Attempts(config.TestGenRetryAttempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Test generation attempt failed", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		log.Warn("All generation attempts failed, using rule-based suite", "err", err)
		return fallbackSuite(chunks), nil
	}

	return ensureCoverage(tests, chunks), nil
}

func buildPrompt(chunks []docModel.Chunk) string {
	var reqLines, compLines, policyLines []string
	seenComp := make(map[string]bool)

	for _, chunk := range chunks {
		for _, req := range chunk.DetectedRequirements {
			reqLines = append(reqLines, fmt.Sprintf("- %s: %s (Page %d, Chunk %s, Confidence %.2f)",
				req.Id, req.Text, chunk.PageNumber, chunk.ChunkId, req.Confidence))
		}
		for _, comp := range chunk.DetectedCompliance {
			if seenComp[comp.CanonicalId] {
				continue
			}
			seenComp[comp.CanonicalId] = true
			compLines = append(compLines, fmt.Sprintf("- %s (%s)", comp.Name, comp.CanonicalId))
		}
		for _, match := range chunk.PolicyMatches {
			policyLines = append(policyLines, fmt.Sprintf("- %s (score %.2f): %s",
				match.DocName, match.Similarity, match.Snippet))
		}
	}

	if len(reqLines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Generate test cases for the requirements below.\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString(strings.Join(reqLines, "\n"))
	if len(compLines) > 0 {
		b.WriteString("\n\nCOMPLIANCE STANDARDS:\n")
		b.WriteString(strings.Join(compLines, "\n"))
	}
	if len(policyLines) > 0 {
		b.WriteString("\n\nPOLICY CONTEXT:\n")
		b.WriteString(strings.Join(policyLines, "\n"))
	}
	b.WriteString("\n\nCover every requirement id in at least one test case's derived_from field.\n")
	b.WriteString("Allowed categories: " + strings.Join(testCategories, ", ") + ".\n")
	b.WriteString(`Return JSON only: {"test_cases": [{"test_id": "TC_001", "title": "...", "description": "...", "category": "...", "priority": "Critical|High|Medium|Low", "derived_from": "REQ-001", "compliance_refs": ["GDPR:2016/679"]}]}`)
	return b.String()
}
