package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/petrarca/techstack-lens/internal/types"
)

// ExportFileName returns the download file name for a technology:
// lower-cased name, whitespace replaced by underscores, "_stack.json" suffix
func ExportFileName(techName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(techName) {
		if unicode.IsSpace(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	b.WriteString("_stack.json")
	return b.String()
}

// ExportBytes serializes a record as an indented JSON object
func ExportBytes(details types.Details) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, details); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes a record as an indented JSON object with keys in declaration order
func Export(w io.Writer, details types.Details) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(details); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ParseExport reads an exported record back
func ParseExport(data []byte) (types.Details, error) {
	var details types.Details
	if err := json.Unmarshal(data, &details); err != nil {
		return types.Details{}, fmt.Errorf("failed to parse export: %w", err)
	}
	return details, nil
}
