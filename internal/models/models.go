package models

// Company identifies a company in API responses.
type Company struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Observation is one (company, metric, year) value flattened out of the raw dataset.
// Metric is always lower-case.
type Observation struct {
	Company string  `json:"company" parquet:"company"`
	Ticker  string  `json:"ticker" parquet:"ticker"`
	Metric  string  `json:"metric" parquet:"metric"`
	Year    int     `json:"year" parquet:"year"`
	Value   float64 `json:"value" parquet:"value"`
}

// DataPoint is a single year/value pair of a company+metric series.
type DataPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}
