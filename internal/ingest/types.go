package ingest

import (
	"bytes"
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// RawCompanyRecord is one company entry of the source dataset.
// The source layout is:
//
//	{"Ticker": "ACME", "Company name": "Acme Co", "Financials": {"Revenue": {"2020": 100}}}
//
// Decoding never fails on a malformed field: a non-string ticker or name decodes
// as "", a non-object metric entry decodes as a nil RawSeries and a non-numeric
// value decodes with Numeric=false. The normalizer drops all of those.
type RawCompanyRecord struct {
	Ticker      string
	CompanyName string
	Financials  map[string]RawSeries
}

// RawSeries maps a year key (as written in the source) to its value.
// It is nil when the source entry was not a mapping.
type RawSeries map[string]RawValue

// RawValue is a single yearly value. Numeric is false when the source value
// was anything other than a number.
type RawValue struct {
	Number  float64
	Numeric bool
}

// Num returns a numeric RawValue.
func Num(f float64) RawValue {
	return RawValue{Number: f, Numeric: true}
}

const (
	keyTicker      = "Ticker"
	keyCompanyName = "Company name"
	keyFinancials  = "Financials"
)

func isJSONObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

func isJSONNumber(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9'))
}

// jsonString returns the string held by b, or "" if b is not a JSON string.
func jsonString(b []byte) string {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ""
	}
	return s
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawCompanyRecord) UnmarshalJSON(b []byte) error {
	*r = RawCompanyRecord{}
	if !isJSONObject(b) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}

	r.Ticker = jsonString(fields[keyTicker])
	r.CompanyName = jsonString(fields[keyCompanyName])

	fin := fields[keyFinancials]
	if !isJSONObject(fin) {
		return nil
	}
	var financials map[string]RawSeries
	if err := json.Unmarshal(fin, &financials); err != nil {
		return nil
	}
	r.Financials = financials
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RawSeries) UnmarshalJSON(b []byte) error {
	*s = nil
	if !isJSONObject(b) {
		return nil
	}
	var m map[string]RawValue
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	if m == nil {
		m = map[string]RawValue{}
	}
	*s = m
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawValue) UnmarshalJSON(b []byte) error {
	*v = RawValue{}
	if !isJSONNumber(b) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// out of float64 range
		return nil
	}
	*v = Num(f)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same leniency as UnmarshalJSON.
func (r *RawCompanyRecord) UnmarshalYAML(node *yaml.Node) error {
	*r = RawCompanyRecord{}
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case keyTicker:
			r.Ticker = yamlString(val)
		case keyCompanyName:
			r.CompanyName = yamlString(val)
		case keyFinancials:
			if val.Kind != yaml.MappingNode {
				continue
			}
			r.Financials = make(map[string]RawSeries, len(val.Content)/2)
			for j := 0; j+1 < len(val.Content); j += 2 {
				var s RawSeries
				if err := s.UnmarshalYAML(val.Content[j+1]); err != nil {
					return err
				}
				r.Financials[val.Content[j].Value] = s
			}
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *RawSeries) UnmarshalYAML(node *yaml.Node) error {
	*s = nil
	if node.Kind != yaml.MappingNode {
		return nil
	}
	m := make(map[string]RawValue, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v RawValue
		if err := v.UnmarshalYAML(node.Content[i+1]); err != nil {
			return err
		}
		m[node.Content[i].Value] = v
	}
	*s = m
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	*v = RawValue{}
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	if tag := node.ShortTag(); tag != "!!int" && tag != "!!float" {
		return nil
	}
	var f float64
	if err := node.Decode(&f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*v = Num(f)
	return nil
}

func yamlString(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return ""
	}
	return node.Value
}
