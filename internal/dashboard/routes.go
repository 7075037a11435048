package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, cache *statsCache) {
	router.GET("/api/sessions", handleSessionList(db))
	router.GET("/api/sessions/:id", handleSessionDetail(db))
	router.GET("/api/stats", handleStats(cache))
}

func handleSessionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		rows, err := ListSessions(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": rows})
	}
}

func handleSessionDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := GetSession(db, c.Param("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func handleStats(cache *statsCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := cache.get()
		if stats == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats not yet computed"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
