package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

// extraction confidences per source; the PDF text layer is reliable,
// the single-page docx path loses layout
const (
	pdfConfidence = 0.95
	docConfidence = 0.90
)

//splitter

func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	// If text is already small enough, just return it
	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []string{text[:limit]}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		// If adding the part exceeds the limit
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Handle overlap: start the next chunk with the end of the previous one
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

func getDocType(docPath string) docModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docModel.PDF
	case ".docx", ".txt", ".rtf":
		return docModel.DOCX
	default:
		return docModel.ERR
	}
}

func extractText(url string, contentType docModel.DocType) ([]RawPage, error) {
	switch contentType {
	case docModel.PDF:
		return extractPDF(url)
	case docModel.DOCX:
		return extractdocxTxtRtf(url)

	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// PrepareChunks splits each page and assigns stable chunk ids in page
// order: CHUNK_001, CHUNK_002, ... The bounding box is an estimate, a
// horizontal band of the page proportional to the chunk's position;
// the local extractor has no layout information to do better.
func PrepareChunks(pages []RawPage, docType docModel.DocType) []docModel.Chunk {
	var allChunks []docModel.Chunk

	// Limits for the splitter
	const maxChunkSize = 1000 // characters
	const overlap = 150       // generous overlap helps semantic continuity

	confidence := pdfConfidence
	if docType != docModel.PDF {
		confidence = docConfidence
	}

	counter := 0
	for _, page := range pages {
		stringChunks := splitTextIntoChunks(page.Content, maxChunkSize, overlap)

		for i, text := range stringChunks {
			counter++
			allChunks = append(allChunks, docModel.Chunk{
				ChunkId:     fmt.Sprintf("CHUNK_%03d", counter),
				PageNumber:  page.Number,
				Text:        text,
				Confidence:  confidence,
				BoundingBox: estimateBox(i, len(stringChunks)),
			})
		}
	}

	return allChunks
}

func estimateBox(index, total int) docModel.BoundingBox {
	if total < 1 {
		total = 1
	}
	band := 1.0 / float64(total)
	return docModel.BoundingBox{
		XMin: 0.05,
		XMax: 0.95,
		YMin: float64(index) * band,
		YMax: float64(index+1) * band,
	}
}

// PreparePolicyChunks keeps the vector-store shape for policy corpus
// ingestion, tagging each chunk with the standard the policy document
// was uploaded under.
func PreparePolicyChunks(pages []RawPage, doc docModel.Document, standardRef string, newId func() string) []docModel.DocChunk {
	var allChunks []docModel.DocChunk

	const maxChunkSize = 1000
	const overlap = 150

	for _, page := range pages {
		stringChunks := splitTextIntoChunks(page.Content, maxChunkSize, overlap)
		for i, text := range stringChunks {
			allChunks = append(allChunks, docModel.DocChunk{
				Doc:            doc,
				ChunkId:        newId(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
				StandardRef:    standardRef,
			})
		}
	}
	return allChunks
}

// ExtractPolicyPages exposes raw page extraction for the policy
// ingestion path.
func ExtractPolicyPages(docPath string) ([]RawPage, docModel.DocType, error) {
	docType := getDocType(docPath)
	if docType == docModel.ERR {
		return nil, docType, fmt.Errorf("unsupported document type: %s", docPath)
	}
	pages, err := extractText(docPath, docType)
	return pages, docType, err
}
