package pipeline

import "github.com/akolanti/TraceGraph/internal/domain/docModel"

// Canned document used when use_mock is set, so the pipeline can be
// demoed without a PDF or any model backends.
func mockChunks() []docModel.Chunk {
	return []docModel.Chunk{
		{
			ChunkId:    "CHUNK_001",
			PageNumber: 1,
			Text:       "The system shall encrypt all patient data at rest and in transit. Access to patient records must comply with HIPAA regulations.",
			Confidence: 0.95,
			BoundingBox: docModel.BoundingBox{
				XMin: 0.05, YMin: 0.05, XMax: 0.95, YMax: 0.30,
			},
		},
		{
			ChunkId:      "CHUNK_002",
			PageNumber:   1,
			Text:         "The application must maintain audit logs for every access to personal data, as required by GDPR Article 30. Contact the DPO at privacy@example.com for details.",
			MaskedText:   "The application must maintain audit logs for every access to personal data, as required by GDPR Article 30. Contact the DPO at [EMAIL_ADDRESS] for details.",
			OriginalText: "The application must maintain audit logs for every access to personal data, as required by GDPR Article 30. Contact the DPO at privacy@example.com for details.",
			Confidence:   0.95,
			PIIFound:     true,
			PIITypes:     []string{"EMAIL_ADDRESS"},
			BoundingBox: docModel.BoundingBox{
				XMin: 0.05, YMin: 0.35, XMax: 0.95, YMax: 0.60,
			},
		},
		{
			ChunkId:    "CHUNK_003",
			PageNumber: 2,
			Text:       "Performance Requirements: The system should process authentication requests within 200 milliseconds under normal load.",
			Confidence: 0.95,
			BoundingBox: docModel.BoundingBox{
				XMin: 0.05, YMin: 0.05, XMax: 0.95, YMax: 0.30,
			},
		},
	}
}

func mockTestCases() []docModel.TestCase {
	return []docModel.TestCase{
		{
			TestId:         "TC_001",
			Title:          "Verify patient data encryption at rest",
			Description:    "Confirm stored patient records are encrypted with an approved cipher.",
			Category:       "Security Tests",
			Priority:       "Critical",
			DerivedFrom:    "REQ-001",
			ComplianceRefs: []string{"HIPAA:45-CFR-164"},
		},
		{
			TestId:         "TC_002",
			Title:          "Verify audit log completeness",
			Description:    "Access a personal data record and confirm a corresponding audit entry is written.",
			Category:       "Compliance Tests",
			Priority:       "High",
			DerivedFrom:    "REQ-002",
			ComplianceRefs: []string{"GDPR:2016/679"},
		},
		{
			TestId:      "TC_003",
			Title:       "Verify authentication latency under load",
			Description: "Measure authentication response times at expected peak traffic.",
			Category:    "Performance Tests",
			Priority:    "Medium",
			DerivedFrom: "REQ-003",
		},
	}
}
