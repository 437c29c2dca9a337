package main

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"boostwatch/models"
)

// initDB opens Postgres and migrates the history tables. Persistence is
// optional: with no DSN the service runs alert-only and returns nil.
func initDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		log.Info("DB_DSN not set, boost history persistence disabled")
		return nil, nil
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := getEnv("DB_AUTO_MIGRATE", ""); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		if err := db.AutoMigrate(&models.BoostRecord{}); err != nil {
			log.Warn("migration warning (boost_records)", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.HealthEvent{}); err != nil {
			log.Warn("migration warning (health_events)", zap.Error(err))
		}
	}
	return db, nil
}
