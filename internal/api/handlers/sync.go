package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"storesync/internal/catalogsync"
	"storesync/internal/logger"
	"storesync/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Syncer runs syncs and reads their audit trail.
type Syncer interface {
	SyncProducts(ctx context.Context, syncType models.SyncType) (*catalogsync.Result, error)
	SyncProductByID(ctx context.Context, remoteID string, syncType models.SyncType) (*catalogsync.Result, error)
	RecentLogs(ctx context.Context, limit int) ([]models.SyncLog, error)
}

type SyncHandler struct {
	syncer     Syncer
	invalidate func()
	logger     *logger.Logger
}

// NewSyncHandler returns the sync trigger handler. invalidate, if not nil,
// runs after every successful sync.
func NewSyncHandler(syncer Syncer, invalidate func(), logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncer:     syncer,
		invalidate: invalidate,
		logger:     logger,
	}
}

type triggerQuery struct {
	Type      string `form:"type" binding:"omitempty,oneof=manual scheduled"`
	ProductID string `form:"productId"`
}

// Trigger runs a full sync, or a single-product sync when productId is set.
func (h *SyncHandler) Trigger(c *gin.Context) {
	var query triggerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be manual or scheduled"})
		return
	}

	syncType := models.SyncTypeManual
	if query.Type != "" {
		syncType = models.SyncType(query.Type)
	}

	// A started run completes even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	var (
		result *catalogsync.Result
		err    error
	)
	if query.ProductID != "" {
		result, err = h.syncer.SyncProductByID(ctx, query.ProductID, syncType)
	} else {
		result, err = h.syncer.SyncProducts(ctx, syncType)
	}

	switch {
	case errors.Is(err, catalogsync.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil && result == nil:
		h.logger.Error("Sync could not start: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sync"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	if h.invalidate != nil {
		h.invalidate()
	}
	c.JSON(http.StatusOK, result)
}

// History lists the most recent sync logs, newest first.
func (h *SyncHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		if n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	logs, err := h.syncer.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to fetch sync logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
