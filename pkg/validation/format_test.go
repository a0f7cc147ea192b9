package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"pretty", "csv", "json"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", format, err)
		}
	}

	// Formats are matched exactly: no case folding or trimming.
	invalid := []string{"", "PRETTY", "Pretty", "CSV", "JSON", " pretty ", "prettyprint", "xml", "yaml"}
	for _, format := range invalid {
		err := ValidateOutputFormat(format)
		if err == nil {
			t.Errorf("ValidateOutputFormat(%q) expected error but got none", format)
			continue
		}
		if !strings.Contains(err.Error(), "pretty, csv or json") {
			t.Errorf("ValidateOutputFormat(%q) error should list the supported formats, got %v", format, err)
		}
	}
}
