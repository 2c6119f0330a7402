// Package views holds the HTML components served by the dashboard.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/mauv0809/finmetrics/internal/chart"
)

// IndexPage is the state of the dashboard page.
type IndexPage struct {
	Companies []string
	Metrics   []string
	Company   string
	Metric    string
	Ticker    string
	// Drawing is nil when no series could be loaded.
	Drawing *chart.Drawing
	Error   string
}

// Chart renders a drawing as inline SVG.
func Chart(d chart.Drawing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return chart.WriteSVG(w, d)
	})
}

// Index renders the dashboard with company and metric selectors and the chart
// for the current selection.
func Index(p IndexPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>Financial Metrics</title>`+
			`<style>body{font-family:sans-serif;margin:2rem;color:#111827}form{margin-bottom:1rem}`+
			`select,button{margin-right:.5rem;padding:.25rem}.error{color:#b91c1c}</style>`+
			`</head><body><h1>Financial Metrics</h1>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<form method="get" action="/">`); err != nil {
			return err
		}
		if err := writeSelect(w, "company", "Company", p.Companies, p.Company); err != nil {
			return err
		}
		if err := writeSelect(w, "metric", "Metric", p.Metrics, p.Metric); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<button type="submit">Show</button></form>`); err != nil {
			return err
		}

		switch {
		case p.Error != "":
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p><p><a href="/">Start over</a></p>`,
				templ.EscapeString(p.Error)); err != nil {
				return err
			}
		case p.Drawing != nil:
			if p.Ticker != "" {
				if _, err := fmt.Fprintf(w, `<p>Ticker: <strong>%s</strong></p>`, templ.EscapeString(p.Ticker)); err != nil {
					return err
				}
			}
			if err := Chart(*p.Drawing).Render(ctx, w); err != nil {
				return err
			}
			q := url.Values{"company": {p.Company}, "metric": {p.Metric}}
			if _, err := fmt.Fprintf(w, `<p><a href="%s">Download SVG</a></p>`,
				templ.EscapeString("/chart.svg?"+q.Encode())); err != nil {
				return err
			}
		default:
			if _, err := io.WriteString(w, `<p>No data available.</p>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func writeSelect(w io.Writer, name, label string, options []string, selected string) error {
	if _, err := fmt.Fprintf(w, `<label>%s <select name="%s">`, label, name); err != nil {
		return err
	}
	for _, o := range options {
		attr := ""
		if o == selected {
			attr = " selected"
		}
		esc := templ.EscapeString(o)
		if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, esc, attr, esc); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select></label>`)
	return err
}
