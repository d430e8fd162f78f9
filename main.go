package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/eersee/mail-generator/common"
	"github.com/eersee/mail-generator/documents"
	"github.com/eersee/mail-generator/jobs"
)

func main() {
	cfg := common.LoadConfig()

	// Initialize the job history database
	db := common.Init(cfg.DBPath)
	common.AutoMigrateJobs(db)

	// Ensure database connection is closed on exit
	sqlDB, err := db.DB()
	if err != nil {
		log.Println("Failed to get sql.DB:", err)
	} else {
		defer sqlDB.Close()
	}

	// Setup Gin router
	r := gin.Default()
	r.RedirectTrailingSlash = false
	r.Use(common.BodyLimit(cfg.MaxUploadBytes))
	r.Use(common.MetricsMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	documents.RegisterRoutes(api, cfg)
	jobs.RegisterRoutes(api.Group("/jobs"))

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
