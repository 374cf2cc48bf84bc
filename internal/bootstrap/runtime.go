// Package bootstrap wires up shared runtime dependencies for the command
// binaries.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"devlink/internal/cache"
	"devlink/internal/config"
	"devlink/internal/database"
	"devlink/internal/models"
	"devlink/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo populates an empty development database with demo data.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. The Redis client may be nil when the server is unreachable; callers
// run degraded without cache in that case.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedDemoData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return db, r, nil
}

// seedDemoData seeds a small demo dataset, but only in development and only
// when the users table is still empty.
func seedDemoData(cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	log.Println("Empty development database, seeding demo data...")
	return seed.NewSeeder(db).Seed(10, 30)
}
