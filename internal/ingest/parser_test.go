package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestParseJSON_WellFormed(t *testing.T) {
	data := []byte(`[{"Ticker":"ACME","Company name":"Acme Co","Financials":{"Revenue":{"2020":100,"2021":150.5}}}]`)

	records, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "ACME", r.Ticker)
	assert.Equal(t, "Acme Co", r.CompanyName)
	require.Contains(t, r.Financials, "Revenue")
	assert.Equal(t, Num(100), r.Financials["Revenue"]["2020"])
	assert.Equal(t, Num(150.5), r.Financials["Revenue"]["2021"])
}

func TestParseJSON_MalformedFieldsAreMarkedNotFailed(t *testing.T) {
	data := []byte(`[
		{"Ticker": 42, "Company name": "Numeric Ticker", "Financials": {}},
		{"Ticker": "BAD", "Company name": "Bad Values", "Financials": {
			"Revenue": {"2020": "100", "2021": null, "2022": true, "2023": 7},
			"Margin": [1, 2, 3],
			"Debt": "n/a"
		}},
		"not an object",
		{"Ticker": "NOFIN", "Company name": "No Financials", "Financials": "none"}
	]`)

	records, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "", records[0].Ticker)
	assert.Equal(t, "Numeric Ticker", records[0].CompanyName)

	rev := records[1].Financials["Revenue"]
	assert.False(t, rev["2020"].Numeric, "quoted number is not numeric")
	assert.False(t, rev["2021"].Numeric)
	assert.False(t, rev["2022"].Numeric)
	assert.Equal(t, Num(7), rev["2023"])
	assert.Nil(t, records[1].Financials["Margin"])
	assert.Nil(t, records[1].Financials["Debt"])
	assert.Contains(t, records[1].Financials, "Debt")

	assert.Equal(t, RawCompanyRecord{}, records[2])
	assert.Nil(t, records[3].Financials)
}

func TestParseJSON_SyntaxError(t *testing.T) {
	_, err := ParseJSON([]byte(`[{"Ticker":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json dataset")
}

func TestParseYAML_MatchesJSON(t *testing.T) {
	yamlData := []byte(`
- Ticker: "ACME"
  Company name: "Acme Co"
  Financials:
    Revenue:
      2020: 100
      2021: 150.5
      2022: "n/a"
    Notes: "free text"
- Ticker: 12
  Company name: "Numeric"
`)
	jsonData := []byte(`[
		{"Ticker":"ACME","Company name":"Acme Co","Financials":{"Revenue":{"2020":100,"2021":150.5,"2022":"n/a"},"Notes":"free text"}},
		{"Ticker":12,"Company name":"Numeric"}
	]`)

	fromYAML, err := ParseYAML(yamlData)
	require.NoError(t, err)
	fromJSON, err := ParseJSON(jsonData)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
}

func TestParseYAML_NonFiniteIsNotNumeric(t *testing.T) {
	records, err := ParseYAML([]byte(`
- Ticker: "X"
  Company name: "X Corp"
  Financials:
    Revenue:
      2020: .nan
      2021: .inf
`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Financials["Revenue"]["2020"].Numeric)
	assert.False(t, records[0].Financials["Revenue"]["2021"].Numeric)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("data/set.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("DATA.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("data.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("data"))
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte(`[]`), Format("toml"))
	require.Error(t, err)
}

func TestEmbeddedSource_Load(t *testing.T) {
	records, err := EmbeddedSource{}.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, r := range records {
		assert.NotEmpty(t, r.Ticker)
		assert.NotEmpty(t, r.CompanyName)
		assert.NotEmpty(t, r.Financials)
	}
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "set.yml")
	require.NoError(t, os.WriteFile(path, []byte("- Ticker: \"ACME\"\n  Company name: \"Acme Co\"\n"), 0o644))

	records, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ACME", records[0].Ticker)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	require.Error(t, err)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource("unused.json").Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_ByteOrderMarks(t *testing.T) {
	data := `[{"Ticker":"ACME","Company name":"Acme Co","Financials":{"Revenue":{"2020":100}}}]`

	withBOM := append([]byte("\xef\xbb\xbf"), data...)
	records, err := Parse(withBOM, FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ACME", records[0].Ticker)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(data))
	require.NoError(t, err)
	records, err = Parse(utf16, FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Co", records[0].CompanyName)
}
