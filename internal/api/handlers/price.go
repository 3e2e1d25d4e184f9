package handlers

import (
	"net/http"
	"strconv"

	"pricefeed/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PriceHandler struct {
	db *gorm.DB
}

func NewPriceHandler(db *gorm.DB) *PriceHandler {
	return &PriceHandler{db: db}
}

func (h *PriceHandler) List(c *gin.Context) {
	var prices []models.Price

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset := (page - 1) * limit

	// Filters
	productID := c.Query("product_id")
	from := c.Query("from")
	to := c.Query("to")

	query := h.db.Model(&models.Price{})

	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	if from != "" {
		query = query.Where("valid_from >= ?", from)
	}

	if to != "" {
		query = query.Where("valid_from <= ?", to)
	}

	var total int64
	query.Count(&total)

	if err := query.Order("product_id, valid_from").Offset(offset).Limit(limit).Find(&prices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": prices,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
