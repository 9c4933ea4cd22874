package detect

import (
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

var labelKeywords = []struct {
	label    string
	keywords []string
}{
	{"ACCEPTANCE_CRITERIA", []string{"acceptance criteria", "acceptance test", "ac:"}},
	{"SECURITY", []string{"security", "authentication", "authorization", "encryption"}},
	{"PERFORMANCE", []string{"performance", "scalability", "load", "response time"}},
	{"COMPLIANCE", []string{"compliance", "regulation", "gdpr", "hipaa", "sox", "ccpa"}},
	{"FUNCTIONAL_REQUIREMENT", []string{"functional requirement", "user story", "feature"}},
	{"TECHNICAL", []string{"technical", "architecture", "design"}},
	{"TEST", []string{"test", "testing", "qa"}},
}

// ClassifyLabels tags a chunk with every matching section label, or
// GENERAL when nothing matches.
func ClassifyLabels(text string) []string {
	lower := strings.ToLower(text)
	var labels []string
	for _, entry := range labelKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				labels = append(labels, entry.label)
				break
			}
		}
	}
	if labels == nil {
		labels = []string{"GENERAL"}
	}
	return labels
}

// AnnotateChunks runs requirement detection, compliance detection,
// labeling and relationship synthesis over the chunks in order.
// Requirement ids and the duplicate-text suppression are scoped to the
// whole document, so chunk order decides detection order.
func AnnotateChunks(chunks []docModel.Chunk) []docModel.Chunk {
	annotator := NewAnnotator()
	for i := range chunks {
		text := chunks[i].EffectiveText()
		chunks[i].DetectedRequirements = annotator.DetectRequirements(text, chunks[i].BoundingBox)
		chunks[i].DetectedCompliance = DetectCompliance(text)
		chunks[i].Labels = ClassifyLabels(text)
	}
	return chunks
}

// LinkChunks synthesizes relationship records per chunk. Runs as a
// separate pass so policy matches gathered after detection are
// included.
func LinkChunks(chunks []docModel.Chunk) []docModel.Chunk {
	for i := range chunks {
		chunks[i].Relationships = SynthesizeRelationships(chunks[i])
	}
	return chunks
}
