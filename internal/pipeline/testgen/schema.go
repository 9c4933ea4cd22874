package testgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

const testSuiteSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["test_cases"],
	"properties": {
		"test_cases": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["test_id", "title", "category", "priority", "derived_from"],
				"properties": {
					"test_id": {"type": "string", "pattern": "^TC_[0-9]{3,}$"},
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"category": {"type": "string"},
					"priority": {"enum": ["Critical", "High", "Medium", "Low"]},
					"derived_from": {"type": "string", "pattern": "^REQ-[0-9]{3,}$"},
					"compliance_refs": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("testSuite.json", testSuiteSchema)

type testSuite struct {
	TestCases []docModel.TestCase `json:"test_cases"`
}

// parseSuite decodes a model response into test cases. The raw output
// may be wrapped in markdown code fences.
func parseSuite(raw string) ([]docModel.TestCase, error) {
	cleaned := stripCodeFences(raw)

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("model output failed schema validation: %w", err)
	}

	var suite testSuite
	if err := json.Unmarshal([]byte(cleaned), &suite); err != nil {
		return nil, err
	}
	return suite.TestCases, nil
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
