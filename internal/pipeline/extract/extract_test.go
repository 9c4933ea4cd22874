package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path string
		want docModel.DocType
	}{
		{"spec.pdf", docModel.PDF},
		{"SPEC.PDF", docModel.PDF},
		{"notes.docx", docModel.DOCX},
		{"notes.txt", docModel.DOCX},
		{"image.png", docModel.ERR},
		{"noextension", docModel.ERR},
	}
	for _, tc := range tests {
		if got := getDocType(tc.path); got != tc.want {
			t.Errorf("getDocType(%s) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestSplitTextIntoChunks(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := splitTextIntoChunks("a short paragraph", 1000, 150)
		if len(chunks) != 1 || chunks[0] != "a short paragraph" {
			t.Errorf("chunks = %v", chunks)
		}
	})

	t.Run("long text splits with overlap", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 40; i++ {
			fmt.Fprintf(&b, "Paragraph %d carries enough text to matter for the splitter.\n\n", i)
		}
		chunks := splitTextIntoChunks(b.String(), 400, 100)
		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks, got %d", len(chunks))
		}
		for i, c := range chunks {
			if len(c) > 400+100 {
				t.Errorf("chunk %d length %d exceeds limit plus overlap", i, len(c))
			}
		}
		// consecutive chunks share the overlap tail
		if !strings.Contains(chunks[1], chunks[0][len(chunks[0])-50:]) {
			t.Error("second chunk does not carry the first chunk's tail")
		}
	})
}

func TestPrepareChunks(t *testing.T) {
	pages := []RawPage{
		{Number: 1, Content: "First page content about requirements."},
		{Number: 2, Content: "Second page content about compliance."},
	}

	chunks := PrepareChunks(pages, docModel.PDF)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[0].ChunkId != "CHUNK_001" || chunks[1].ChunkId != "CHUNK_002" {
		t.Errorf("ids = %s, %s", chunks[0].ChunkId, chunks[1].ChunkId)
	}
	if chunks[0].PageNumber != 1 || chunks[1].PageNumber != 2 {
		t.Errorf("pages = %d, %d", chunks[0].PageNumber, chunks[1].PageNumber)
	}
	if chunks[0].Confidence != pdfConfidence {
		t.Errorf("confidence = %v, want %v", chunks[0].Confidence, pdfConfidence)
	}

	box := chunks[0].BoundingBox
	if box.XMin < 0 || box.YMin < 0 || box.XMax > 1 || box.YMax > 1 {
		t.Errorf("bounding box out of the normalized page: %+v", box)
	}
}

func TestPrepareChunks_DocConfidence(t *testing.T) {
	chunks := PrepareChunks([]RawPage{{Number: 1, Content: "text"}}, docModel.DOCX)
	if chunks[0].Confidence != docConfidence {
		t.Errorf("confidence = %v, want %v", chunks[0].Confidence, docConfidence)
	}
}

func TestPreparePolicyChunks(t *testing.T) {
	doc := docModel.Document{Id: "doc-1", Name: "gdpr.txt", ContentType: docModel.DOCX}
	pages := []RawPage{{Number: 1, Content: "Erasure on request is mandatory."}}

	next := 0
	newId := func() string {
		next++
		return fmt.Sprintf("pol-%d", next)
	}

	chunks := PreparePolicyChunks(pages, doc, "GDPR:2016/679", newId)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if c.ChunkId != "pol-1" || c.StandardRef != "GDPR:2016/679" || c.Doc.Id != "doc-1" {
		t.Errorf("unexpected chunk: %+v", c)
	}
}

func TestLocalExtractor_TxtDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	content := "The system shall authenticate every request.\nAudit logs must be immutable."
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	chunks, err := NewLocalExtractor().Extract(context.Background(), path, "requirements.txt")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("no chunks extracted")
	}
	if !strings.Contains(chunks[0].Text, "authenticate") {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}
}

func TestLocalExtractor_UnsupportedType(t *testing.T) {
	if _, err := NewLocalExtractor().Extract(context.Background(), "/tmp/image.png", "image.png"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}
