package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/guilherme-santos/tabcalendar/internal/sqlstore"
)

var cfg struct {
	Database struct {
		Driver string
		URL    string
	}
	Verbose bool
}

func init() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	flag.StringVar(&cfg.Database.Driver, "driver", getEnv("DATABASE_DRIVER", sqlstore.SQLiteDriver), "database driver (sqlite3 or postgres)")
	flag.StringVar(&cfg.Database.URL, "db", getEnv("DATABASE_URL", "tabcalendar.db"), "database file or connection string")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose output")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func openStorage() (*sqlstore.Storage, func() error, error) {
	switch cfg.Database.Driver {
	case sqlstore.SQLiteDriver, sqlstore.PostgresDriver:
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connecting to database: %v", err)
	}

	storage := sqlstore.NewStorage(db, cfg.Database.Driver)
	if cfg.Database.Driver == sqlstore.SQLiteDriver {
		if err := storage.CreateSchema(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("creating schema: %v", err)
		}
	}
	return storage, db.Close, nil
}
