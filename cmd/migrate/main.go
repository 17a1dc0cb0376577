package main

import (
	"github.com/haimi-h/task-backend-sub000/internal/config" // Custom import path (Config)
	"github.com/haimi-h/task-backend-sub000/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run schema migration
}
