package handlers

import (
	"context"
	"errors"
	"net/http"

	"pricefeed/internal/etl"
	"pricefeed/internal/logger"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	runner *etl.Runner
	logger *logger.Logger
}

func NewSyncHandler(runner *etl.Runner, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		runner: runner,
		logger: logger,
	}
}

// Trigger kicks off a sync run in the background. Only one run may be in
// flight at a time; the runner enforces that.
func (h *SyncHandler) Trigger(c *gin.Context) {
	if h.runner.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": "Sync already running"})
		return
	}

	go func() {
		run, err := h.runner.Run(context.Background())
		if err != nil {
			if errors.Is(err, etl.ErrRunInProgress) {
				return
			}
			h.logger.Error("Sync run failed: %v", err)
			return
		}
		h.logger.Info("Sync run %s finished: %d products, %d price rows", run.ID, run.Products, run.PriceRows)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}
