package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/dataset"
	"github.com/mauv0809/finmetrics/internal/ingest"
	"github.com/mauv0809/finmetrics/internal/models"
)

const (
	msgMissingParams = "Both company and metric parameters are required"
	msgInternal      = "Internal server error"
)

type Handler struct {
	source     ingest.Source
	log        *zap.Logger
	production bool
}

// New creates the API handler. Every request reloads and normalizes the dataset
// from source.
func New(source ingest.Source, log *zap.Logger, production bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{source: source, log: log, production: production}
}

// Health returns application health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *Handler) load(c echo.Context) (dataset.Result, error) {
	raw, err := h.source.Load(c.Request().Context())
	if err != nil {
		return dataset.Result{}, eris.Wrap(err, "load dataset")
	}
	return dataset.Normalize(raw), nil
}

// Companies handles GET /api/companies
func (h *Handler) Companies(c echo.Context) error {
	res, err := h.load(c)
	if err != nil {
		return h.internalError(c, err)
	}
	companies := nonNil(res.Companies)
	return c.JSON(http.StatusOK, models.CompaniesResponse{
		Success:   true,
		Count:     len(companies),
		Companies: companies,
	})
}

// Metrics handles GET /api/metrics
func (h *Handler) Metrics(c echo.Context) error {
	res, err := h.load(c)
	if err != nil {
		return h.internalError(c, err)
	}
	metrics := nonNil(res.Metrics)
	return c.JSON(http.StatusOK, models.MetricsResponse{
		Success: true,
		Count:   len(metrics),
		Metrics: metrics,
	})
}

// Data handles GET /api/data?company=&metric=
// Returns the year-ascending series for one company and metric.
func (h *Handler) Data(c echo.Context) error {
	company, metric, ok := selection(c)
	if !ok {
		return h.badRequest(c, company, metric)
	}

	qr, err := h.query(c, company, metric)
	if err != nil {
		var nf *dataset.NotFoundError
		if errors.As(err, &nf) {
			return h.notFound(c, nf)
		}
		return h.internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.DataResponse{
		Success: true,
		Company: qr.Company,
		Metric:  qr.Metric,
		Points:  qr.Points,
		Count:   len(qr.Points),
		Found:   true,
	})
}

func (h *Handler) query(c echo.Context, company, metric string) (dataset.QueryResult, error) {
	res, err := h.load(c)
	if err != nil {
		return dataset.QueryResult{}, err
	}
	return dataset.Query(res.Observations, company, metric)
}

// selection reads the company and metric query parameters. ok is false when
// either is missing or blank.
func selection(c echo.Context) (company, metric string, ok bool) {
	company = c.QueryParam("company")
	metric = c.QueryParam("metric")
	ok = strings.TrimSpace(company) != "" && strings.TrimSpace(metric) != ""
	return company, metric, ok
}

func (h *Handler) badRequest(c echo.Context, company, metric string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   msgMissingParams,
		Company: &company,
		Metric:  &metric,
	})
}

func notFoundMessage(nf *dataset.NotFoundError) string {
	return fmt.Sprintf("No data found for company %q and metric %q", nf.Company, nf.Metric)
}

func (h *Handler) notFound(c echo.Context, nf *dataset.NotFoundError) error {
	found := false
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   notFoundMessage(nf),
		Company: &nf.Company,
		Metric:  &nf.Metric,
		Found:   &found,
	})
}

// internalError logs err and replies with a generic 500. The stack trace is
// only included outside production.
func (h *Handler) internalError(c echo.Context, err error) error {
	h.log.Error("request failed",
		zap.String("path", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
	resp := models.ErrorResponse{Success: false, Error: msgInternal}
	if !h.production {
		resp.Details = eris.ToString(err, true)
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
