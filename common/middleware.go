package common

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BodyLimit rejects oversized requests before any handler work happens.
// Requests that lie about their Content-Length still get cut off by the
// wrapped body reader.
func BodyLimit(limit int64) gin.HandlerFunc {
	message := fmt.Sprintf("request body exceeds the %d MB limit", limit>>20)
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": message})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// MetricsMiddleware records per-request API metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		startTime := time.Now()
		c.Next()
		durationMs := int(time.Since(startTime).Milliseconds())

		rowsProcessed := 0
		if rows, exists := c.Get("rows_processed"); exists {
			if r, ok := rows.(int); ok {
				rowsProcessed = r
			}
		}

		metric := ApiMetric{
			Endpoint:      c.FullPath(),
			Method:        c.Request.Method,
			StatusCode:    c.Writer.Status(),
			DurationMs:    durationMs,
			RowsProcessed: rowsProcessed,
			Timestamp:     startTime,
		}

		// Save asynchronously so slow disks never delay the response.
		go func() {
			if db := GetDB(); db != nil {
				db.Create(&metric)
			}
		}()
	}
}
