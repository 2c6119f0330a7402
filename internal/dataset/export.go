package dataset

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/mauv0809/finmetrics/internal/models"
)

// Exporter writes flattened observations to a file.
type Exporter interface {
	Export(rows []models.Observation, path string) error
	Extension() string
}

var exportHeader = []string{"company", "ticker", "metric", "year", "value"}

// NewExporter returns the exporter for format (json, csv, parquet, xlsx), or nil if unknown.
func NewExporter(format string) Exporter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONExporter{}
	case "csv":
		return CSVExporter{}
	case "parquet":
		return ParquetExporter{}
	case "xlsx":
		return XLSXExporter{}
	default:
		return nil
	}
}

// JSONExporter writes an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Extension() string { return "json" }

func (JSONExporter) Export(rows []models.Observation, path string) error {
	if rows == nil {
		rows = []models.Observation{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// CSVExporter writes a CSV file with header exportHeader.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Export(rows []models.Observation, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, o := range rows {
		if err := w.Write([]string{
			o.Company,
			o.Ticker,
			o.Metric,
			strconv.Itoa(o.Year),
			strconv.FormatFloat(o.Value, 'f', -1, 64),
		}); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// ParquetExporter writes a Parquet file using the struct tags on models.Observation.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string { return "parquet" }

func (ParquetExporter) Export(rows []models.Observation, path string) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return eris.Wrapf(err, "export: write parquet %s", path)
	}
	return nil
}

// XLSXExporter writes a single "observations" sheet with a header row.
type XLSXExporter struct{}

func (XLSXExporter) Extension() string { return "xlsx" }

func (XLSXExporter) Export(rows []models.Observation, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("observations")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}
	for _, o := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(o.Company)
		row.AddCell().SetString(o.Ticker)
		row.AddCell().SetString(o.Metric)
		row.AddCell().SetInt(o.Year)
		row.AddCell().SetFloat(o.Value)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: write xlsx %s", path)
	}
	return nil
}
