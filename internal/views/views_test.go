package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/finmetrics/internal/chart"
	"github.com/mauv0809/finmetrics/internal/models"
)

func render(t *testing.T, p IndexPage) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(p).Render(context.Background(), &buf))
	return buf.String()
}

func TestIndex_WithChart(t *testing.T) {
	d := chart.Render([]models.DataPoint{{Year: 2020, Value: 100}, {Year: 2021, Value: 150}}, "Acme Co - revenue")
	html := render(t, IndexPage{
		Companies: []string{"Acme Co", "B&B Corp"},
		Metrics:   []string{"revenue"},
		Company:   "Acme Co",
		Metric:    "revenue",
		Ticker:    "ACME",
		Drawing:   &d,
	})

	assert.Contains(t, html, `<option value="Acme Co" selected>Acme Co</option>`)
	assert.Contains(t, html, `<option value="B&amp;B Corp">B&amp;B Corp</option>`)
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "<polyline")
	assert.Contains(t, html, "ACME")
	assert.Contains(t, html, "/chart.svg?company=Acme+Co&amp;metric=revenue")
}

func TestIndex_Error(t *testing.T) {
	html := render(t, IndexPage{Error: `No data found for "<x>"`})

	assert.Contains(t, html, `class="error"`)
	assert.Contains(t, html, "&lt;x&gt;")
	assert.NotContains(t, html, "<svg")
}

func TestIndex_NoData(t *testing.T) {
	html := render(t, IndexPage{})
	assert.Contains(t, html, "No data available.")
}
