package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/bootstrap"
	"github.com/mauv0809/finmetrics/internal/config"
	"github.com/mauv0809/finmetrics/internal/ingest"
)

func TestNewServer_Routes(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Port: 8080, Env: "development"}}
	e := newServer(cfg, zap.NewNop(), &bootstrap.Dataset{Source: ingest.EmbeddedSource{}})

	tests := []struct {
		target string
		status int
	}{
		{"/health", http.StatusOK},
		{"/api/companies", http.StatusOK},
		{"/api/metrics", http.StatusOK},
		{"/api/data?company=Apple+Inc.&metric=revenue", http.StatusOK},
		{"/api/data?company=Apple+Inc.", http.StatusBadRequest},
		{"/api/data?company=Unknown&metric=revenue", http.StatusNotFound},
		{"/chart.svg?company=Apple+Inc.&metric=Revenue", http.StatusOK},
		{"/", http.StatusOK},
		{"/admin/status", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}
}
