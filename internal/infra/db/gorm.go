package db

import (
	"fmt"

	"grocerystore/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect は設定からDSNを組み立てて *gorm.DB を返す。
// DATABASE_URLがあればそちらを優先する。
func Connect(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
