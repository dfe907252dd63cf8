package testsupport

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/schema"
)

// LoadFixture returns the raw bytes of a testdata file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// MustLoadSchema parses a config_schema fixture and fails the test on decode
// errors or parse issues.
func MustLoadSchema(t testing.TB, path string) schema.TemplateConfigSchema {
	t.Helper()

	data, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load schema %s: %v", path, err)
	}
	parsed, issues, err := schema.Parse(data)
	if err != nil {
		t.Fatalf("parse schema %s: %v", path, err)
	}
	if len(issues) > 0 {
		t.Fatalf("schema %s has issues: %v", path, issues)
	}
	return parsed
}

// MustLoadContent decodes a page content fixture.
func MustLoadContent(t testing.TB, path string) content.Content {
	t.Helper()

	var doc content.Content
	if err := LoadGolden(path, &doc); err != nil {
		t.Fatalf("load content %s: %v", path, err)
	}
	return doc
}
