package redact

import (
	"context"
	"strings"
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

func TestRegexRedactor_Mask(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTypes []string
		wantGone  []string
	}{
		{
			name:      "email address",
			text:      "Contact john.doe@example.com for access.",
			wantTypes: []string{"EMAIL_ADDRESS"},
			wantGone:  []string{"john.doe@example.com"},
		},
		{
			name:      "ssn",
			text:      "SSN on file: 123-45-6789.",
			wantTypes: []string{"US_SOCIAL_SECURITY_NUMBER"},
			wantGone:  []string{"123-45-6789"},
		},
		{
			name:      "credit card",
			text:      "Card 4111 1111 1111 1111 was charged.",
			wantTypes: []string{"CREDIT_CARD_NUMBER"},
			wantGone:  []string{"4111 1111 1111 1111"},
		},
		{
			name:      "person name with honorific",
			text:      "Approved by Dr. Jane Smith yesterday.",
			wantTypes: []string{"PERSON_NAME"},
			wantGone:  []string{"Jane Smith"},
		},
		{
			name:      "multiple types in one chunk",
			text:      "Email admin@corp.io or reach Mr. Bob Jones.",
			wantTypes: []string{"EMAIL_ADDRESS", "PERSON_NAME"},
			wantGone:  []string{"admin@corp.io", "Bob Jones"},
		},
	}

	redactor := NewRegexRedactor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chunk, err := redactor.Mask(context.Background(), docModel.Chunk{ChunkId: "CHUNK_001", Text: tc.text})
			if err != nil {
				t.Fatalf("Mask failed: %v", err)
			}
			if !chunk.PIIFound {
				t.Error("PIIFound = false, want true")
			}
			if len(chunk.PIITypes) != len(tc.wantTypes) {
				t.Fatalf("types = %v, want %v", chunk.PIITypes, tc.wantTypes)
			}
			for i, want := range tc.wantTypes {
				if chunk.PIITypes[i] != want {
					t.Errorf("type %d = %s, want %s", i, chunk.PIITypes[i], want)
				}
			}
			for _, gone := range tc.wantGone {
				if strings.Contains(chunk.MaskedText, gone) {
					t.Errorf("masked text still contains %q: %s", gone, chunk.MaskedText)
				}
			}
			if chunk.OriginalText != tc.text {
				t.Error("original text was not preserved")
			}
		})
	}
}

func TestRegexRedactor_CleanText(t *testing.T) {
	redactor := NewRegexRedactor()
	text := "The system shall archive records after five years."
	chunk, err := redactor.Mask(context.Background(), docModel.Chunk{Text: text})
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if chunk.PIIFound {
		t.Errorf("PIIFound = true for clean text, types = %v", chunk.PIITypes)
	}
	if chunk.MaskedText != text {
		t.Errorf("masked text changed: %s", chunk.MaskedText)
	}
}

func TestRegexRedactor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	redactor := NewRegexRedactor()
	if _, err := redactor.Mask(ctx, docModel.Chunk{Text: "a@b.com"}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestNoopRedactor(t *testing.T) {
	chunk, err := NoopRedactor{}.Mask(context.Background(), docModel.Chunk{Text: "a@b.com"})
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if chunk.MaskedText != "a@b.com" || chunk.PIIFound {
		t.Errorf("noop redactor altered the chunk: %+v", chunk)
	}
}
