package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/validation"
	"github.com/petrarca/techstack-lens/internal/version"
	"gopkg.in/yaml.v3"
)

// Converter turns the nested-object dataset form
// {category: {technology: {field: value}}} into the YAML dataset document
type Converter struct {
	version string
	stats   map[string]int
}

// NewConverter creates a converter stamping documents with formatVersion
func NewConverter(formatVersion string) *Converter {
	return &Converter{
		version: formatVersion,
		stats:   make(map[string]int),
	}
}

// Decode reads the nested-object form keeping declaration order at every level.
// Content may also be a source file assigning the object, e.g. `const DATA = {...};`.
func (c *Converter) Decode(content []byte) (*types.DatasetFile, error) {
	object, err := extractObject(content)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(object))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	file := &types.DatasetFile{Version: c.version}
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		category, err := c.decodeCategory(dec, name)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
		file.Categories = append(file.Categories, category)
		c.stats[name] = len(category.Technologies)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	// Rejects duplicate and empty names
	if _, err := catalog.New("convert", file.Version, file.Categories); err != nil {
		return nil, err
	}
	return file, nil
}

func (c *Converter) decodeCategory(dec *json.Decoder, name string) (types.Category, error) {
	category := types.Category{Name: name, Technologies: []types.Technology{}}
	if err := expectDelim(dec, '{'); err != nil {
		return category, err
	}
	for dec.More() {
		techName, err := stringToken(dec)
		if err != nil {
			return category, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return category, fmt.Errorf("technology %s: %w", techName, err)
		}
		var details types.Details
		if err := details.UnmarshalJSON(raw); err != nil {
			return category, fmt.Errorf("technology %s: %w", techName, err)
		}
		category.Technologies = append(category.Technologies, types.Technology{Name: techName, Details: details})
	}
	return category, expectDelim(dec, '}')
}

// Encode writes file as a YAML document and checks it against the dataset schema
func (c *Converter) Encode(w io.Writer, file *types.DatasetFile) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := validation.ValidateDataset(buf.Bytes()); err != nil {
		return fmt.Errorf("converted dataset is invalid: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Stats returns the technology count per converted category
func (c *Converter) Stats() map[string]int {
	return c.stats
}

// PrintStats prints conversion statistics
func (c *Converter) PrintStats(file *types.DatasetFile) {
	log.Printf("Conversion Statistics:")
	total := 0
	for _, cat := range file.Categories {
		log.Printf("  %-28s: %d technologies", cat.Name, c.stats[cat.Name])
		total += c.stats[cat.Name]
	}
	log.Printf("  %-28s: %d technologies", "TOTAL", total)
}

// extractObject returns the outermost object literal of content
func extractObject(content []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed, nil
	}

	assign := bytes.Index(trimmed, []byte("= {"))
	end := bytes.LastIndexByte(trimmed, '}')
	if assign < 0 || end < assign {
		return nil, fmt.Errorf("no dataset object found")
	}
	return trimmed[assign+2 : end+1], nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected a name, got %v", tok)
	}
	return s, nil
}

// run converts source into target. Nothing is written unless the whole
// document converts and validates.
func run(source, target, formatVersion string, stats bool) error {
	content, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	converter := NewConverter(formatVersion)
	file, err := converter.Decode(content)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	var buf bytes.Buffer
	if err := converter.Encode(&buf, file); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if target == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write target: %w", err)
	}

	if stats {
		converter.PrintStats(file)
	}
	log.Printf("Converted %d categories to %s", len(file.Categories), target)
	return nil
}

func main() {
	var (
		source        = flag.String("source", "", "Nested-object JSON dataset (or a source file assigning it)")
		target        = flag.String("target", "", "Target YAML file (default: stdout)")
		formatVersion = flag.String("version", version.DatasetFormat, "Format version written to the document")
		stats         = flag.Bool("stats", false, "Show conversion statistics")
	)
	flag.Parse()

	if *source == "" {
		log.Fatalf("-source is required")
	}
	if err := run(*source, *target, *formatVersion, *stats); err != nil {
		log.Fatalf("%v", err)
	}
}
