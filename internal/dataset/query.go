package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mauv0809/finmetrics/internal/models"
)

// NotFoundError is returned by Query when no observation matches.
// Company and Metric hold the trimmed query values (metric lower-cased).
type NotFoundError struct {
	Company string
	Metric  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no data found for company %q and metric %q", e.Company, e.Metric)
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// QueryResult is the series for one company+metric pair.
type QueryResult struct {
	Company models.Company
	Metric  string
	Points  []models.DataPoint
}

// Query returns the year-ascending series for company and metric, matched
// case-insensitively. The ticker (and canonical company name) come from the
// first matching observation; tickers are not cross-checked.
func Query(observations []models.Observation, company, metric string) (QueryResult, error) {
	company = strings.TrimSpace(company)
	metric = strings.ToLower(strings.TrimSpace(metric))

	var res QueryResult
	for _, o := range observations {
		if o.Metric != metric || !strings.EqualFold(o.Company, company) {
			continue
		}
		if len(res.Points) == 0 {
			res.Company = models.Company{Name: o.Company, Ticker: o.Ticker}
		}
		res.Points = append(res.Points, models.DataPoint{Year: o.Year, Value: o.Value})
	}

	if len(res.Points) == 0 {
		return QueryResult{}, &NotFoundError{Company: company, Metric: metric}
	}

	sort.SliceStable(res.Points, func(i, j int) bool {
		return res.Points[i].Year < res.Points[j].Year
	})
	res.Metric = metric
	return res, nil
}
