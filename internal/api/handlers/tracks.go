package handlers

import (
	"net/http"

	"github.com/cadenza-labs/cadenza-api/internal/logger"
	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const trackHistoryLimit = 50

type TracksHandler struct {
	db *gorm.DB
}

func NewTracksHandler(db *gorm.DB) *TracksHandler {
	return &TracksHandler{db: db}
}

// List returns the most recently generated tracks, newest first.
func (h *TracksHandler) List(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "track history requires a database",
		})
		return
	}

	var tracks []models.Track
	if err := h.db.Order("created_at desc").Limit(trackHistoryLimit).Find(&tracks).Error; err != nil {
		logger.Error("Failed to load track history", err, logger.Fields{
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load track history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(tracks),
		"tracks":  tracks,
	})
}
