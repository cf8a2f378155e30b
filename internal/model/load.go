package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a record document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported record format")

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Decode parses raw into a record. Values are taken as-is; nothing is
// checked beyond well-formedness of the document itself.
func Decode(raw []byte, format Format) (ResumeRecord, error) {
	var r ResumeRecord
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(raw, &r); err != nil {
			return ResumeRecord{}, fmt.Errorf("decode json record: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &r); err != nil {
			return ResumeRecord{}, fmt.Errorf("decode yaml record: %w", err)
		}
	default:
		return ResumeRecord{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return r, nil
}

// LoadFile reads and decodes a record file.
func LoadFile(path string) (ResumeRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ResumeRecord{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ResumeRecord{}, fmt.Errorf("read record: %w", err)
	}
	return Decode(b, format)
}
