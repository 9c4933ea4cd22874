package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

// fixed strategy confidences
const (
	ModalConfidence    = 0.85
	ActionConfidence   = 0.70
	SectionConfidence  = 0.75
	BulletConfidence   = 0.70
	NumberedConfidence = 0.70

	minSentenceLen = 15
	minLineLen     = 10
)

var modalVerbs = []string{
	"shall", "must", "should", "will", "may",
	"needs to", "required to", "has to", "ought to", "supposed to",
}

var actionVerbs = []string{
	"provide", "support", "enable", "allow", "implement",
	"ensure", "guarantee", "deliver", "offer", "include",
	"facilitate", "perform", "execute", "process", "handle",
}

var domainKeywords = []string{
	"system", "user", "feature", "application", "data", "service", "platform",
}

var (
	modalPattern    = regexp.MustCompile(`(?i)\b(` + strings.Join(modalVerbs, "|") + `)\b`)
	actionPattern   = regexp.MustCompile(`(?i)\b(` + strings.Join(actionVerbs, "|") + `)(?:s|ing)?\b`)
	sectionPattern  = regexp.MustCompile(`^[A-Z][a-zA-Z\s&-]{3,40}:`)
	bulletPattern   = regexp.MustCompile(`^\s*[-*•○]\s+(.+)$`)
	numberedPattern = regexp.MustCompile(`^\s*(?:\d+|[a-z])[.)]\s+.+$`)
	sentenceSplit   = regexp.MustCompile(`[.!?]\s+`)
	spaceCollapse   = regexp.MustCompile(`\s+`)
)

// Annotator assigns document-scoped requirement ids (REQ-001, REQ-002,
// ...) and suppresses duplicate requirement texts across the whole
// document, whichever strategy or chunk found them first.
type Annotator struct {
	seen    map[string]bool
	nextReq int
}

func NewAnnotator() *Annotator {
	return &Annotator{seen: make(map[string]bool), nextReq: 1}
}

// The dedup key ignores case, whitespace runs and trailing sentence
// punctuation. The splitter consumes the terminator of every sentence
// but the last, so without the trim a duplicated final sentence would
// hash differently by its period alone.
func normalizeText(text string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(text), ".!?")
	return spaceCollapse.ReplaceAllString(strings.ToLower(trimmed), " ")
}

// DetectRequirements scans chunk text with the fixed strategy order:
// modal verb, action verb, section header, bullet, numbered list. A
// span is classified by the first strategy that matches it. Pure
// function of the text plus the annotator's dedup state; no match in
// any strategy is an empty result, not an error.
func (a *Annotator) DetectRequirements(text string, box docModel.BoundingBox) []docModel.RequirementMention {
	var mentions []docModel.RequirementMention

	sentences, lines := splitDocument(text)

	accept := func(candidate string, reqType docModel.RequirementType, confidence float64) bool {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return false
		}
		norm := normalizeText(candidate)
		if a.seen[norm] {
			return false
		}
		a.seen[norm] = true
		mentions = append(mentions, docModel.RequirementMention{
			Id:          fmt.Sprintf("REQ-%03d", a.nextReq),
			Text:        candidate,
			Type:        reqType,
			Confidence:  confidence,
			BoundingBox: box,
		})
		a.nextReq++
		return true
	}

	// 1. modal verbs, strict requirements
	for _, s := range sentences {
		if len(s) < minSentenceLen {
			continue
		}
		if modalPattern.MatchString(s) {
			accept(s, docModel.ModalVerb, ModalConfidence)
		}
	}

	// 2. action verbs, gated on a domain keyword to skip common prose
	for _, s := range sentences {
		if len(s) < minSentenceLen {
			continue
		}
		if actionPattern.MatchString(s) && hasDomainKeyword(s) {
			accept(s, docModel.ActionVerb, ActionConfidence)
		}
	}

	// 3. section headers, e.g. "Security:" or "Data Retention:"
	for _, line := range lines {
		if sectionPattern.MatchString(line) {
			accept(truncate(line, 200), docModel.SectionHeader, SectionConfidence)
		}
	}

	// 4. bullet points with enough substance after the marker
	for _, line := range lines {
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if countNonSpace(m[1]) >= minSentenceLen {
			accept(line, docModel.BulletPoint, BulletConfidence)
		}
	}

	// 5. numbered or lettered lists
	for _, line := range lines {
		if numberedPattern.MatchString(line) && len(line) > minSentenceLen {
			accept(line, docModel.NumberedList, NumberedConfidence)
		}
	}

	return mentions
}

func splitDocument(text string) (sentences []string, lines []string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) < minLineLen {
			continue
		}
		lines = append(lines, line)
		for _, s := range sentenceSplit.Split(line, -1) {
			s = strings.TrimSpace(s)
			if s != "" {
				sentences = append(sentences, s)
			}
		}
	}
	return sentences, lines
}

func hasDomainKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func countNonSpace(s string) int {
	count := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t", r) {
			count++
		}
	}
	return count
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
