package smaz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies a text representation of a codebook file.
type Format uint8

const (
	// FormatYAML is a YAML document with an "entries" sequence.
	FormatYAML Format = iota + 1
	// FormatJSONC is a JSON object with an "entries" array, extended with
	// comments and trailing commas.
	FormatJSONC
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSONC:
		return "jsonc"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// FormatFromPath picks the format from a file extension: .yaml and .yml
// are YAML, .json and .jsonc are JSONC.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return 0, fmt.Errorf("smaz: unknown codebook file extension %q", filepath.Ext(path))
	}
}

// codebookFile is the document shape shared by both text formats:
//
//	entries: [" ", "the", "e", ...]
type codebookFile struct {
	Entries []string `yaml:"entries" json:"entries"`
}

// ParseCodebook parses a codebook document and validates its entries.
func ParseCodebook(data []byte, format Format) (*Codebook, error) {
	var doc codebookFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("smaz: parsing yaml codebook: %w", err)
		}
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("smaz: parsing jsonc codebook: %w", err)
		}
	default:
		return nil, fmt.Errorf("smaz: unsupported codebook format %v", format)
	}
	return NewCodebook(doc.Entries)
}

// LoadCodebook reads and parses a codebook file, choosing the format from
// its extension.
func LoadCodebook(path string) (*Codebook, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cb, err := ParseCodebook(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cb, nil
}
