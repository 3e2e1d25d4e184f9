package handlers

import (
	"net/http"
	"strconv"

	"pricefeed/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RunHandler struct {
	db *gorm.DB
}

func NewRunHandler(db *gorm.DB) *RunHandler {
	return &RunHandler{db: db}
}

func (h *RunHandler) List(c *gin.Context) {
	var runs []models.SyncRun

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if err := h.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func (h *RunHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var run models.SyncRun
	if err := h.db.First(&run, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": run})
}
