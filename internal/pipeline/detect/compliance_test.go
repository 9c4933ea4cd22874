package detect

import (
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

func TestDetectCompliance(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantIds []string
	}{
		{
			name:    "direct acronym",
			text:    "All processing is subject to GDPR requirements.",
			wantIds: []string{"GDPR:2016/679"},
		},
		{
			name:    "long form name",
			text:    "The Health Insurance Portability and Accountability Act applies here.",
			wantIds: []string{"HIPAA:45-CFR-164"},
		},
		{
			name:    "indirect phrase",
			text:    "Users can exercise their right to be forgotten at any time.",
			wantIds: []string{"GDPR:2016/679"},
		},
		{
			name:    "multiple standards in one chunk",
			text:    "Cardholder data handling must satisfy PCI DSS and SOC 2 Type II.",
			wantIds: []string{"SOC2:AICPA-TSC", "PCI-DSS:v4.0"},
		},
		{
			name:    "no standard mentioned",
			text:    "The scheduler retries failed jobs up to three times.",
			wantIds: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mentions := DetectCompliance(tc.text)
			if len(mentions) != len(tc.wantIds) {
				t.Fatalf("got %d mentions, want %d (%v)", len(mentions), len(tc.wantIds), mentions)
			}
			for i, want := range tc.wantIds {
				if mentions[i].CanonicalId != want {
					t.Errorf("mention %d canonical id = %s, want %s", i, mentions[i].CanonicalId, want)
				}
			}
		})
	}
}

func TestDetectCompliance_OneMentionPerStandard(t *testing.T) {
	// GDPR surfaces through three different patterns in the same chunk
	text := "GDPR, the General Data Protection Regulation, grants data subject rights."
	mentions := DetectCompliance(text)
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1", len(mentions))
	}
	if mentions[0].CanonicalId != "GDPR:2016/679" {
		t.Errorf("canonical id = %s", mentions[0].CanonicalId)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantId       string
		wantType     string
		wantFallback bool
	}{
		{"acronym", "GDPR", "GDPR:2016/679", "GDPR", false},
		{"mixed case", "Gdpr", "GDPR:2016/679", "GDPR", false},
		{"already canonical", "HIPAA:45-CFR-164", "HIPAA:45-CFR-164", "HIPAA", false},
		{"spaced variant", "soc 2", "SOC2:AICPA-TSC", "SOC2", false},
		{"long form", "California Consumer Privacy Act", "CCPA:CA-CIV-1798.100", "CCPA", false},
		{"unknown standard", "NIST 800-53", "NIST 80053", "NIST 80053", true},
		{"empty after cleanup", "!!!", "UNKNOWN", "UNKNOWN", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotId, gotType, gotFallback := Normalize(tc.input)
			if gotId != tc.wantId {
				t.Errorf("id = %q, want %q", gotId, tc.wantId)
			}
			if gotType != tc.wantType {
				t.Errorf("type = %q, want %q", gotType, tc.wantType)
			}
			if gotFallback != tc.wantFallback {
				t.Errorf("fallback = %v, want %v", gotFallback, tc.wantFallback)
			}
		})
	}
}

func TestSynthesizeRelationships(t *testing.T) {
	chunk := docModel.Chunk{
		ChunkId:    "CHUNK_002",
		PageNumber: 3,
		DetectedRequirements: []docModel.RequirementMention{
			{Id: "REQ-001", Confidence: 0.85},
			{Id: "REQ-002", Confidence: 0.70},
		},
		DetectedCompliance: []docModel.ComplianceMention{
			{CanonicalId: "GDPR:2016/679", Confidence: 0.8},
		},
		PolicyMatches: []docModel.PolicyMatch{
			{PolicyId: "POL_01", Similarity: 0.9, StandardRef: "HIPAA:45-CFR-164"},
			{PolicyId: "POL_02", Similarity: 0.6}, // no standard, skipped
		},
	}

	records := SynthesizeRelationships(chunk)
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	first := records[0]
	if first.EdgeId != "EDGE_CHUNK_002_001" {
		t.Errorf("edge id = %s", first.EdgeId)
	}
	if first.Type != docModel.RequiresCompliance {
		t.Errorf("type = %s, want %s", first.Type, docModel.RequiresCompliance)
	}
	// 0.75 * min(0.85, 0.8) rounded to two decimals
	if first.Confidence != 0.60 {
		t.Errorf("confidence = %v, want 0.60", first.Confidence)
	}
	if first.Page != 3 {
		t.Errorf("page = %d, want 3", first.Page)
	}

	second := records[1]
	if second.Type != docModel.GovernedBy || second.TargetId != "HIPAA:45-CFR-164" {
		t.Errorf("unexpected second record: %+v", second)
	}
	// 0.75 * min(0.85, 0.9)
	if second.Confidence != 0.64 {
		t.Errorf("policy confidence = %v, want 0.64", second.Confidence)
	}

	// sequence numbers stay chunk scoped and monotonic
	if records[3].EdgeId != "EDGE_CHUNK_002_004" {
		t.Errorf("last edge id = %s", records[3].EdgeId)
	}
}

func TestSynthesizeRelationships_EmptyChunk(t *testing.T) {
	records := SynthesizeRelationships(docModel.Chunk{ChunkId: "CHUNK_009"})
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
