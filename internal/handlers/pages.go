package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/mauv0809/finmetrics/internal/chart"
	"github.com/mauv0809/finmetrics/internal/dataset"
	"github.com/mauv0809/finmetrics/internal/views"
)

// Render writes a templ component as an HTML response.
func Render(c echo.Context, statusCode int, t templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(c.Request().Context(), buf); err != nil {
		return err
	}
	return c.HTML(statusCode, buf.String())
}

func chartTitle(qr dataset.QueryResult) string {
	return fmt.Sprintf("%s (%s) - %s", qr.Company.Name, qr.Company.Ticker, qr.Metric)
}

// ChartSVG handles GET /chart.svg?company=&metric=
func (h *Handler) ChartSVG(c echo.Context) error {
	return h.chart(c, "image/svg+xml", chart.WriteSVG)
}

// ChartPNG handles GET /chart.png?company=&metric=
func (h *Handler) ChartPNG(c echo.Context) error {
	return h.chart(c, "image/png", chart.WritePNG)
}

func (h *Handler) chart(c echo.Context, contentType string, write func(io.Writer, chart.Drawing) error) error {
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

	var buf bytes.Buffer
	if err := write(&buf, chart.Render(qr.Points, chartTitle(qr))); err != nil {
		return h.internalError(c, err)
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// Index handles GET /
// Without a selection the first company and metric are shown.
func (h *Handler) Index(c echo.Context) error {
	res, err := h.load(c)
	if err != nil {
		h.log.Sugar().Errorw("index: load dataset", "error", err)
		return Render(c, http.StatusInternalServerError, views.Index(views.IndexPage{Error: msgInternal}))
	}

	page := views.IndexPage{
		Companies: res.Companies,
		Metrics:   res.Metrics,
		Company:   c.QueryParam("company"),
		Metric:    c.QueryParam("metric"),
	}
	if page.Company == "" && len(res.Companies) > 0 {
		page.Company = res.Companies[0]
	}
	if page.Metric == "" && len(res.Metrics) > 0 {
		page.Metric = res.Metrics[0]
	}
	if page.Company == "" || page.Metric == "" {
		return Render(c, http.StatusOK, views.Index(page))
	}

	qr, err := dataset.Query(res.Observations, page.Company, page.Metric)
	if err != nil {
		var nf *dataset.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
		page.Error = notFoundMessage(nf)
		return Render(c, http.StatusNotFound, views.Index(page))
	}

	d := chart.Render(qr.Points, chartTitle(qr))
	page.Company = qr.Company.Name
	page.Metric = qr.Metric
	page.Ticker = qr.Company.Ticker
	page.Drawing = &d
	return Render(c, http.StatusOK, views.Index(page))
}
