package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ShivamHirwani/quick-desk/internal/config"
)

// Connect opens the configured database and verifies it with a ping.
// Queries throughout the codebase are written with `?` placeholders and
// passed through sqlx's Rebind for the active driver.
func Connect(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "postgres", "mysql", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
