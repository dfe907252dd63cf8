package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "pagebuilder://config-schema.json"

// documentSchema describes the persisted config_schema shape. It accepts the
// legacy flat fields list as well as the sectioned form.
const documentSchema = `{
  "type": "object",
  "properties": {
    "sections": {"type": "array", "items": {"$ref": "#/$defs/section"}},
    "fields": {"type": "array", "items": {"$ref": "#/$defs/field"}}
  },
  "$defs": {
    "key": {"type": "string", "minLength": 1, "pattern": "^[^.]+$"},
    "bound": {"type": "integer", "minimum": 0},
    "section": {
      "type": "object",
      "required": ["key"],
      "properties": {
        "key": {"$ref": "#/$defs/key"},
        "name": {"type": "string"},
        "description": {"type": "string"},
        "order": {"type": "integer"},
        "required": {"type": "boolean"},
        "fields": {"type": "array", "items": {"$ref": "#/$defs/field"}}
      }
    },
    "field": {
      "type": "object",
      "required": ["key", "type"],
      "properties": {
        "key": {"$ref": "#/$defs/key"},
        "type": {"enum": ["text", "textarea", "url", "image", "slider", "faq", "table", "richtext", "checkbox"]},
        "label": {"type": "string"},
        "description": {"type": "string"},
        "required": {"type": "boolean"},
        "minSlides": {"$ref": "#/$defs/bound"},
        "maxSlides": {"$ref": "#/$defs/bound"},
        "minFAQs": {"$ref": "#/$defs/bound"},
        "maxFAQs": {"$ref": "#/$defs/bound"},
        "minRows": {"$ref": "#/$defs/bound"},
        "maxRows": {"$ref": "#/$defs/bound"},
        "columns": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["key"],
            "properties": {
              "key": {"type": "string"},
              "label": {"type": "string"},
              "type": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

var (
	documentOnce     sync.Once
	documentCompiled *jsonschema.Schema
	documentErr      error
)

// DocumentError lists structural problems in a config_schema document.
type DocumentError struct {
	Issues []Issue
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s: %s", ErrDocumentInvalid.Error(), strings.Join(parts, "; "))
}

func (e *DocumentError) Unwrap() error {
	return ErrDocumentInvalid
}

// ValidateDocument checks the structure of a config_schema document before it
// is stored.
func ValidateDocument(doc map[string]any) error {
	compiled, err := compiledDocumentSchema()
	if err != nil {
		return err
	}

	normalized, err := normalizeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}

	if err := compiled.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if ok := asValidationError(err, &validationErr); ok {
			return &DocumentError{Issues: collectDocumentIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return nil
}

func compiledDocumentSchema() (*jsonschema.Schema, error) {
	documentOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			documentErr = err
			return
		}
		documentCompiled, documentErr = compiler.Compile(documentSchemaURL)
	})
	return documentCompiled, documentErr
}

func normalizeDocument(doc map[string]any) (any, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return false
	}
	*target = validationErr
	return true
}

func collectDocumentIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Path:    strings.TrimSpace(node.InstanceLocation),
				Message: strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
