package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-records/internal/store"
)

// HealthStore is the slice of the store the health probe needs.
type HealthStore interface {
	Ping(ctx context.Context) error
	Guards() store.GuardStatus
}

type HealthHandler struct {
	store HealthStore
}

func NewHealthHandler(st HealthStore) *HealthHandler {
	return &HealthHandler{store: st}
}

// Check probes store connectivity and reports which startup guards are in
// place. The 503 body may carry the underlying failure reason: this is an
// operational diagnostic, not user-facing content.
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"detail": fmt.Sprintf("database connection failed: %v", err),
		})
		return
	}

	guards := h.store.Guards()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"index_ready":     guards.IndexReady,
		"validator_ready": guards.ValidatorReady,
	})
}
