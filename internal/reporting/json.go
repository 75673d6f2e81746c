// File: internal/reporting/json.go
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// JSONWriter emits the report as a single JSON document.
type JSONWriter struct {
	Indent bool
}

func (jw *JSONWriter) Write(w io.Writer, report *Report) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	if jw.Indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
