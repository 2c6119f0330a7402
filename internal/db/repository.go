package db

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/mauv0809/finmetrics/internal/ingest"
)

const observationsTable = "financial_observations"

// record_idx is the record's position in the dataset. Two records may share a
// company identity and a year, so rows are keyed by record, not by company.
var observationColumns = []string{"record_idx", "ticker", "company_name", "metric", "year_key", "value"}

// Repository reads and writes the raw dataset.
type Repository struct {
	pool Pool
}

// NewRepository creates a new repository.
func NewRepository(pool Pool) *Repository {
	return &Repository{pool: pool}
}

// ReplaceDataset swaps the stored dataset for records inside one transaction.
// Non-numeric values are stored as NULL so they survive a round trip as non-numeric.
// Returns the number of rows written.
func (r *Repository) ReplaceDataset(ctx context.Context, records []ingest.RawCompanyRecord) (int64, error) {
	rows := flatten(records)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: begin seed")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DELETE FROM "+observationsTable); err != nil {
		return 0, eris.Wrap(err, "db: clear observations")
	}

	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, pgx.Identifier{observationsTable}, observationColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, eris.Wrapf(err, "db: COPY INTO %s", observationsTable)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: commit seed")
	}
	return n, nil
}

// flatten turns records into table rows in a stable order.
func flatten(records []ingest.RawCompanyRecord) [][]any {
	var rows [][]any
	for idx, rec := range records {
		metrics := make([]string, 0, len(rec.Financials))
		for m := range rec.Financials {
			metrics = append(metrics, m)
		}
		sort.Strings(metrics)

		for _, m := range metrics {
			series := rec.Financials[m]
			years := make([]string, 0, len(series))
			for y := range series {
				years = append(years, y)
			}
			sort.Strings(years)

			for _, y := range years {
				v := series[y]
				value := decimal.NullDecimal{}
				if v.Numeric {
					value = decimal.NewNullDecimal(decimal.NewFromFloat(v.Number))
				}
				rows = append(rows, []any{idx, rec.Ticker, rec.CompanyName, m, y, value})
			}
		}
	}
	return rows
}

// Load rebuilds raw company records, one per stored record_idx and in dataset
// order. It satisfies ingest.Source.
func (r *Repository) Load(ctx context.Context) ([]ingest.RawCompanyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT record_idx, ticker, company_name, metric, year_key, value
		FROM financial_observations
		ORDER BY record_idx, metric, year_key
	`)
	if err != nil {
		return nil, eris.Wrap(err, "db: query observations")
	}
	defer rows.Close()

	index := map[int]int{}
	var records []ingest.RawCompanyRecord

	for rows.Next() {
		var (
			idx                        int
			ticker, name, metric, year string
			value                      decimal.NullDecimal
		)
		if err := rows.Scan(&idx, &ticker, &name, &metric, &year, &value); err != nil {
			return nil, eris.Wrap(err, "db: scan observation")
		}

		i, ok := index[idx]
		if !ok {
			i = len(records)
			index[idx] = i
			records = append(records, ingest.RawCompanyRecord{
				Ticker:      ticker,
				CompanyName: name,
				Financials:  map[string]ingest.RawSeries{},
			})
		}

		series := records[i].Financials[metric]
		if series == nil {
			series = ingest.RawSeries{}
			records[i].Financials[metric] = series
		}
		if value.Valid {
			f, _ := value.Decimal.Float64()
			series[year] = ingest.Num(f)
		} else {
			series[year] = ingest.RawValue{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: iterate observations")
	}

	return records, nil
}

// GetCompanyCount returns the number of distinct companies stored.
func (r *Repository) GetCompanyCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(DISTINCT (ticker, company_name)) FROM financial_observations").Scan(&count)
	if err != nil {
		return 0, eris.Wrap(err, "db: count companies")
	}
	return count, nil
}

// GetObservationCount returns the number of stored rows.
func (r *Repository) GetObservationCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM financial_observations").Scan(&count)
	if err != nil {
		return 0, eris.Wrap(err, "db: count observations")
	}
	return count, nil
}

// Ping checks connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
