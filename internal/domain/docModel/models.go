package docModel

import "time"

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// DocChunk is a policy-corpus unit: a split of an ingested policy
// document headed for the vector store.
type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
	StandardRef    string `json:"standard_ref,omitempty"`
}

type RequirementType string

const (
	ModalVerb     RequirementType = "MODAL_VERB"
	ActionVerb    RequirementType = "ACTION_VERB"
	SectionHeader RequirementType = "SECTION_HEADER"
	BulletPoint   RequirementType = "BULLET_POINT"
	NumberedList  RequirementType = "NUMBERED_LIST"
)

type RelationType string

const (
	RequiresCompliance   RelationType = "REQUIRES_COMPLIANCE"
	GovernedBy           RelationType = "GOVERNED_BY"
	VerifiedBy           RelationType = "VERIFIED_BY"
	EnsuresComplianceWith RelationType = "ENSURES_COMPLIANCE_WITH"
)

// BoundingBox is normalized to the page, all values in [0,1].
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

type RequirementMention struct {
	Id          string          `json:"id"`
	Text        string          `json:"text"`
	Type        RequirementType `json:"type"`
	Confidence  float64         `json:"confidence"`
	BoundingBox BoundingBox     `json:"bounding_box"`
}

type ComplianceMention struct {
	Name          string  `json:"name"`
	CanonicalId   string  `json:"canonical_id"`
	StandardType  string  `json:"standard_type"`
	Confidence    float64 `json:"confidence"`
	FallbackMatch bool    `json:"fallback_match,omitempty"`
}

// RelationshipRecord is scoped to the chunk it was synthesized from.
// SourceId and TargetId must differ.
type RelationshipRecord struct {
	EdgeId      string       `json:"edge_id"`
	SourceId    string       `json:"source_id"`
	TargetId    string       `json:"target_id"`
	Type        RelationType `json:"type"`
	TargetClass string       `json:"target_class"`
	Confidence  float64      `json:"confidence"`
	Page        int          `json:"page"`
}

type PolicyMatch struct {
	PolicyId    string  `json:"policy_id"`
	DocName     string  `json:"doc_name,omitempty"`
	Snippet     string  `json:"snippet"`
	Similarity  float64 `json:"similarity"`
	StandardRef string  `json:"standard_ref,omitempty"`
}

// Chunk is a page-scoped unit of extracted document text.
// Created once per extraction pass and never mutated after the
// pipeline annotates it; discarded at end of request.
type Chunk struct {
	ChunkId              string               `json:"chunk_id"`
	PageNumber           int                  `json:"page_number"`
	Text                 string               `json:"text"`
	MaskedText           string               `json:"masked_text,omitempty"`
	OriginalText         string               `json:"original_text,omitempty"`
	Confidence           float64              `json:"confidence"`
	BoundingBox          BoundingBox          `json:"bounding_box"`
	Labels               []string             `json:"labels,omitempty"`
	PIIFound             bool                 `json:"pii_found"`
	PIITypes             []string             `json:"pii_types,omitempty"`
	DetectedRequirements []RequirementMention `json:"detected_requirements,omitempty"`
	DetectedCompliance   []ComplianceMention  `json:"detected_compliance,omitempty"`
	Relationships        []RelationshipRecord `json:"relationships,omitempty"`
	PolicyMatches        []PolicyMatch        `json:"policy_matches,omitempty"`
}

// EffectiveText returns the text downstream stages should read:
// masked when the redactor ran, raw otherwise.
func (c Chunk) EffectiveText() string {
	if c.MaskedText != "" {
		return c.MaskedText
	}
	return c.Text
}

type TestCase struct {
	TestId         string   `json:"test_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category"`
	Priority       string   `json:"priority"`
	DerivedFrom    string   `json:"derived_from"`
	ComplianceRefs []string `json:"compliance_refs,omitempty"`
}
