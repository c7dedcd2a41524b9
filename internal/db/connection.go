package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Connection holds the database connection used by the Postgres-backed
// gazetteer store.
type Connection struct {
	DB *sql.DB
}

// NewConnection opens a connection using DATABASE_URL when set -- its
// presence is what selects SQL-backed mode over in-memory mode -- else
// assembles a DSN from the PG* pieces, each falling back to a sane default.
func NewConnection() (*Connection, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getEnvOrDefault("PGHOST", "localhost")
		port := getEnvOrDefault("PGPORT", "5432")
		user := getEnvOrDefault("PGUSER", "postgres")
		password := getEnvOrDefault("PGPASSWORD", "postgres")
		dbname := getEnvOrDefault("PGDATABASE", "places")
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)

	return &Connection{DB: db}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}

// IsBackedMode reports whether DATABASE_URL is configured, i.e. whether the
// gazetteer should run in SQL-backed mode rather than in-memory mode.
func IsBackedMode() bool {
	return os.Getenv("DATABASE_URL") != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
