package schematron

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvalPassesWhenAllAssertionsHold(t *testing.T) {
	schemaSrc := `{
		"pattern": {
			"name": "basic",
			"rule": {
				"context": "/book",
				"assert": {
					"test": "string-length(title) > 0",
					"message": "a book must have a non-empty title"
				}
			}
		}
	}`
	dataSrc := `{"book": [{"title": "A"}, {"title": "B"}]}`

	var out bytes.Buffer
	ok, err := EvalJSON(strings.NewReader(schemaSrc), strings.NewReader(dataSrc), &out)
	if err != nil {
		t.Fatalf("EvalJSON: %v", err)
	}
	if !ok {
		t.Errorf("expected validation to pass, got diagnostics: %s", out.String())
	}
}

func TestEvalReportsDiagnosticPerFailingContextNode(t *testing.T) {
	schemaSrc := `{
		"pattern": {
			"name": "basic",
			"rule": {
				"context": "/book",
				"assert": {
					"test": "string-length(title) > 0",
					"message": "a book must have a non-empty title"
				}
			}
		}
	}`
	dataSrc := `{"book": [{"title": "A"}, {"title": ""}, {"title": ""}]}`

	var out bytes.Buffer
	ok, err := EvalJSON(strings.NewReader(schemaSrc), strings.NewReader(dataSrc), &out)
	if err != nil {
		t.Fatalf("EvalJSON: %v", err)
	}
	if ok {
		t.Errorf("expected validation to fail")
	}
	// Diagnostics are prefixed with the enclosing pattern's name, not a
	// per-assert name (assert objects only carry "test" and "message").
	lines := strings.Count(out.String(), "basic, error: a book must have a non-empty title")
	if lines != 2 {
		t.Errorf("expected 2 diagnostic lines (one per failing book), got %d:\n%s", lines, out.String())
	}
}

func TestMissingRequiredFieldIsASchemaError(t *testing.T) {
	schemaSrc := `{"pattern": {"name": "basic"}}`
	dataSrc := `{}`
	var out bytes.Buffer
	if _, err := EvalJSON(strings.NewReader(schemaSrc), strings.NewReader(dataSrc), &out); err == nil {
		t.Errorf("expected a schema error for a pattern missing 'rule'")
	}
}
