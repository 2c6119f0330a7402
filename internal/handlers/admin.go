package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/ingest"
)

// DatasetStore is the writable dataset backend behind the admin endpoints.
type DatasetStore interface {
	ReplaceDataset(ctx context.Context, records []ingest.RawCompanyRecord) (int64, error)
	GetCompanyCount(ctx context.Context) (int, error)
	GetObservationCount(ctx context.Context) (int, error)
}

// AdminHandler handles dataset administration endpoints.
type AdminHandler struct {
	store DatasetStore
	seed  ingest.Source
	log   *zap.Logger
}

// NewAdminHandler creates an admin handler that seeds store from seed.
func NewAdminHandler(store DatasetStore, seed ingest.Source, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{store: store, seed: seed, log: log}
}

// AdminResponse is the JSON response for admin endpoints.
type AdminResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
}

// Seed handles POST /admin/seed
// Replaces the stored dataset with the seed source.
func (h *AdminHandler) Seed(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	records, err := h.seed.Load(ctx)
	if err != nil {
		h.log.Error("seed: load source", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, AdminResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to load seed dataset: %v", err),
		})
	}

	count, err := h.store.ReplaceDataset(ctx, records)
	if err != nil {
		h.log.Error("seed: replace dataset", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, AdminResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to store dataset: %v", err),
		})
	}

	elapsed := time.Since(start)
	h.log.Info("seed complete",
		zap.Int("companies", len(records)),
		zap.Int64("rows", count),
		zap.Duration("elapsed", elapsed),
	)

	return c.JSON(http.StatusOK, AdminResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully stored %d observations for %d companies", count, len(records)),
		Count:   count,
		Elapsed: elapsed.String(),
	})
}

// Status handles GET /admin/status
// Returns stored row counts.
func (h *AdminHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	companies, err := h.store.GetCompanyCount(ctx)
	if err != nil {
		h.log.Error("status: count companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, AdminResponse{Success: false, Message: msgInternal})
	}
	observations, err := h.store.GetObservationCount(ctx)
	if err != nil {
		h.log.Error("status: count observations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, AdminResponse{Success: false, Message: msgInternal})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"companies":    companies,
		"observations": observations,
	})
}
