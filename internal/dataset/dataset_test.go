package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/mauv0809/finmetrics/internal/ingest"
	"github.com/mauv0809/finmetrics/internal/models"
)

func acme() ingest.RawCompanyRecord {
	return ingest.RawCompanyRecord{
		Ticker:      "ACME",
		CompanyName: "Acme Co",
		Financials: map[string]ingest.RawSeries{
			"Revenue": {"2020": ingest.Num(100), "2021": ingest.Num(150)},
		},
	}
}

func TestNormalize_AcmeScenario(t *testing.T) {
	res := Normalize([]ingest.RawCompanyRecord{acme()})

	assert.Equal(t, []string{"Acme Co"}, res.Companies)
	assert.Equal(t, []string{"revenue"}, res.Metrics)
	assert.Equal(t, []models.Observation{
		{Company: "Acme Co", Ticker: "ACME", Metric: "revenue", Year: 2020, Value: 100},
		{Company: "Acme Co", Ticker: "ACME", Metric: "revenue", Year: 2021, Value: 150},
	}, res.Observations)
}

func TestNormalize_SkipsRecordsMissingIdentity(t *testing.T) {
	fin := map[string]ingest.RawSeries{"Revenue": {"2020": ingest.Num(1)}}
	res := Normalize([]ingest.RawCompanyRecord{
		{Ticker: "", CompanyName: "No Ticker", Financials: fin},
		{Ticker: "NONAME", CompanyName: "  ", Financials: fin},
		{},
	})

	assert.Empty(t, res.Observations)
	assert.Empty(t, res.Companies)
	assert.Empty(t, res.Metrics)
}

func TestNormalize_DropsInvalidTriples(t *testing.T) {
	res := Normalize([]ingest.RawCompanyRecord{{
		Ticker:      "X",
		CompanyName: "X Corp",
		Financials: map[string]ingest.RawSeries{
			"Revenue": {
				"2019":   ingest.Num(10),
				"2020":   {},
				"FY2021": ingest.Num(30),
				"2022.5": ingest.Num(40),
				" 2023 ": ingest.Num(50),
			},
			"Broken": nil,
		},
	}})

	assert.Equal(t, []string{"revenue"}, res.Metrics)
	require.Len(t, res.Observations, 2)
	assert.Equal(t, 2019, res.Observations[0].Year)
	assert.Equal(t, 2023, res.Observations[1].Year)
}

func TestNormalize_SortedAndDeduplicated(t *testing.T) {
	res := Normalize([]ingest.RawCompanyRecord{
		{Ticker: "ZZ", CompanyName: "Zeta", Financials: map[string]ingest.RawSeries{
			"revenue": {"2020": ingest.Num(1)},
			"EBITDA":  {"2020": ingest.Num(1)},
		}},
		{Ticker: "AA", CompanyName: "Alpha", Financials: map[string]ingest.RawSeries{
			"Revenue": {"2020": ingest.Num(1)},
		}},
		{Ticker: "ZZ", CompanyName: "Zeta", Financials: map[string]ingest.RawSeries{
			"REVENUE": {"2021": ingest.Num(2)},
		}},
	})

	assert.Equal(t, []string{"Alpha", "Zeta"}, res.Companies)
	assert.Equal(t, []string{"ebitda", "revenue"}, res.Metrics)
	assert.Len(t, res.Observations, 4)
}

func TestNormalize_Deterministic(t *testing.T) {
	raw, err := ingest.EmbeddedSource{}.Load(context.Background())
	require.NoError(t, err)

	first := Normalize(raw)
	for range 5 {
		assert.Equal(t, first, Normalize(raw))
	}
}

func TestQuery_AcmeScenario(t *testing.T) {
	obs := Normalize([]ingest.RawCompanyRecord{acme()}).Observations

	res, err := Query(obs, "Acme Co", "REVENUE")
	require.NoError(t, err)
	assert.Equal(t, models.Company{Name: "Acme Co", Ticker: "ACME"}, res.Company)
	assert.Equal(t, "revenue", res.Metric)
	assert.Equal(t, []models.DataPoint{{Year: 2020, Value: 100}, {Year: 2021, Value: 150}}, res.Points)
}

func TestQuery_CaseInsensitive(t *testing.T) {
	obs := Normalize([]ingest.RawCompanyRecord{acme()}).Observations

	want, err := Query(obs, "Acme Co", "revenue")
	require.NoError(t, err)

	for _, c := range []struct{ company, metric string }{
		{"acme co", "Revenue"},
		{"ACME CO", "rEvEnUe"},
		{"  Acme Co ", " revenue "},
	} {
		got, err := Query(obs, c.company, c.metric)
		require.NoError(t, err, c)
		assert.Equal(t, want, got, c)
	}
}

func TestQuery_NotFound(t *testing.T) {
	obs := Normalize([]ingest.RawCompanyRecord{acme()}).Observations

	_, err := Query(obs, " Unknown ", "Revenue")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Unknown", nf.Company)
	assert.Equal(t, "revenue", nf.Metric)

	_, err = Query(obs, "Acme Co", "ebitda")
	assert.True(t, IsNotFound(err))
}

func TestQuery_SortsByYearAndKeepsDuplicates(t *testing.T) {
	obs := []models.Observation{
		{Company: "Acme Co", Ticker: "ACME", Metric: "revenue", Year: 2022, Value: 3},
		{Company: "Acme Co", Ticker: "ACME", Metric: "revenue", Year: 2020, Value: 1},
		{Company: "Other", Ticker: "OTH", Metric: "revenue", Year: 2020, Value: 9},
		{Company: "Acme Co", Ticker: "ACME2", Metric: "revenue", Year: 2021, Value: 2},
		{Company: "Acme Co", Ticker: "ACME", Metric: "revenue", Year: 2020, Value: 1.5},
	}

	res, err := Query(obs, "acme co", "revenue")
	require.NoError(t, err)
	assert.Equal(t, "ACME", res.Company.Ticker, "ticker comes from the first match")
	assert.Equal(t, []models.DataPoint{
		{Year: 2020, Value: 1},
		{Year: 2020, Value: 1.5},
		{Year: 2021, Value: 2},
		{Year: 2022, Value: 3},
	}, res.Points)
}

func sampleRows() []models.Observation {
	return Normalize([]ingest.RawCompanyRecord{acme()}).Observations
}

func TestNewExporter(t *testing.T) {
	assert.IsType(t, JSONExporter{}, NewExporter("json"))
	assert.IsType(t, CSVExporter{}, NewExporter(" CSV "))
	assert.IsType(t, ParquetExporter{}, NewExporter("parquet"))
	assert.IsType(t, XLSXExporter{}, NewExporter("xlsx"))
	assert.Nil(t, NewExporter("toml"))
}

func TestJSONExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.json")
	require.NoError(t, JSONExporter{}.Export(sampleRows(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []models.Observation
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleRows(), got)
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	require.NoError(t, CSVExporter{}.Export(sampleRows(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"company", "ticker", "metric", "year", "value"},
		{"Acme Co", "ACME", "revenue", "2020", "100"},
		{"Acme Co", "ACME", "revenue", "2021", "150"},
	}, records)
}

func TestParquetExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.parquet")
	require.NoError(t, ParquetExporter{}.Export(sampleRows(), path))

	got, err := parquet.ReadFile[models.Observation](path)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}

func TestXLSXExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.xlsx")
	require.NoError(t, XLSXExporter{}.Export(sampleRows(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["observations"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	var header []string
	for _, c := range sheet.Rows[0].Cells {
		header = append(header, c.String())
	}
	assert.Equal(t, exportHeader, header)
	assert.Equal(t, "Acme Co", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "revenue", sheet.Rows[2].Cells[2].String())

	year, err := sheet.Rows[2].Cells[3].Int()
	require.NoError(t, err)
	assert.Equal(t, 2021, year)
	value, err := sheet.Rows[2].Cells[4].Float()
	require.NoError(t, err)
	assert.Equal(t, 150.0, value)
}
