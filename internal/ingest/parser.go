package ingest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the dataset format from a file extension.
// Anything that is not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a dataset in the given format. Input may carry a byte order
// mark; UTF-16 with BOM is converted to UTF-8 first.
func Parse(data []byte, format Format) ([]RawCompanyRecord, error) {
	data, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	default:
		return nil, eris.Errorf("ingest: unsupported dataset format %q", format)
	}
}

// ParseJSON decodes a JSON array of company records.
// Only a top-level syntax error fails; malformed entries decode as empty records.
func ParseJSON(data []byte) ([]RawCompanyRecord, error) {
	var records []RawCompanyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(err, "ingest: parse json dataset")
	}
	return records, nil
}

// ParseYAML decodes a YAML sequence of company records.
func ParseYAML(data []byte) ([]RawCompanyRecord, error) {
	var records []RawCompanyRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(err, "ingest: parse yaml dataset")
	}
	return records, nil
}

func toUTF8(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: decode dataset text")
	}
	return out, nil
}
