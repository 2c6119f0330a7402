// Package dataset flattens raw company financials into observations and
// answers company+metric queries over them.
package dataset

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mauv0809/finmetrics/internal/ingest"
	"github.com/mauv0809/finmetrics/internal/models"
)

// Result is the normalized form of a raw dataset.
type Result struct {
	Observations []models.Observation
	Companies    []string
	Metrics      []string
}

// Normalize flattens raw records into observations.
//
// Records without a ticker or company name are skipped, as are metric entries
// that are not a mapping, non-numeric values and year keys that are not integers.
// Observations come out in record order, then metric name order, then year order.
func Normalize(raw []ingest.RawCompanyRecord) Result {
	var res Result
	companies := make(map[string]struct{})
	metrics := make(map[string]struct{})

	for _, rec := range raw {
		if strings.TrimSpace(rec.Ticker) == "" || strings.TrimSpace(rec.CompanyName) == "" {
			continue
		}

		for _, metricName := range sortedKeys(rec.Financials) {
			series := rec.Financials[metricName]
			if series == nil {
				continue
			}
			metric := strings.ToLower(metricName)

			for _, point := range sortedPoints(series) {
				res.Observations = append(res.Observations, models.Observation{
					Company: rec.CompanyName,
					Ticker:  rec.Ticker,
					Metric:  metric,
					Year:    point.Year,
					Value:   point.Value,
				})
				companies[rec.CompanyName] = struct{}{}
				metrics[metric] = struct{}{}
			}
		}
	}

	res.Companies = sortedKeys(companies)
	res.Metrics = sortedKeys(metrics)
	return res
}

// parseYear parses a year key. Only plain base-10 integers are accepted.
func parseYear(key string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, false
	}
	return year, true
}

// sortedPoints returns the valid points of a series ordered by year.
func sortedPoints(series ingest.RawSeries) []models.DataPoint {
	points := make([]models.DataPoint, 0, len(series))
	for key, v := range series {
		if !v.Numeric {
			continue
		}
		year, ok := parseYear(key)
		if !ok {
			continue
		}
		points = append(points, models.DataPoint{Year: year, Value: v.Number})
	}
	// "2020" and " 2020" parse to the same year; order them by value so output is stable.
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Value < points[j].Value
	})
	return points
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
