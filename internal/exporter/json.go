package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ecomcli/pkg/contracts/domain"
)

// JSONWriter writes the results of a run as one JSON document. Undefined
// ratios are encoded as null.
type JSONWriter struct {
	indent bool
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(indent bool) *JSONWriter {
	return &JSONWriter{indent: indent}
}

// WriteResults writes results to path
func (w *JSONWriter) WriteResults(path string, results *domain.AnalyticsResults) error {
	if results == nil {
		return fmt.Errorf("no results to write")
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
