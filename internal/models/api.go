package models

// CompaniesResponse is the body of GET /api/companies.
type CompaniesResponse struct {
	Success   bool     `json:"success"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}

// MetricsResponse is the body of GET /api/metrics.
type MetricsResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Metrics []string `json:"metrics"`
}

// DataResponse is the body of a successful GET /api/data.
type DataResponse struct {
	Success bool        `json:"success"`
	Company Company     `json:"company"`
	Metric  string      `json:"metric"`
	Points  []DataPoint `json:"points"`
	Count   int         `json:"count"`
	Found   bool        `json:"found"`
}

// ErrorResponse is the body of every failed API call. Company, Metric and Found
// are only set by /api/data; Details only outside production.
type ErrorResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Company *string `json:"company,omitempty"`
	Metric  *string `json:"metric,omitempty"`
	Found   *bool   `json:"found,omitempty"`
	Details string  `json:"details,omitempty"`
}
