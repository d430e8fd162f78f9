package common

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init opens the SQLite database that backs job history and API metrics.
// Generated documents themselves are never persisted here.
func Init(path string) *gorm.DB {
	var err error
	db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	return db
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return db
}
