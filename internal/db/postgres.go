package db

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB is the raw sqlx pool: API-key lookups, health pings and the
// sync-log report query go through it.
var DB *sqlx.DB

// DSN builds the Postgres connection string from PG_* env vars, or
// returns PG_DSN verbatim when set.
func DSN() string {
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("PG_USER"),
		os.Getenv("PG_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DB"),
	)
}

// InitPostgres connects the sqlx pool, retrying while the database
// container comes up.
func InitPostgres() error {
	dsn := DSN()

	var err error
	for i := 0; i < 10; i++ {
		DB, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			DB.SetMaxOpenConns(20)
			DB.SetMaxIdleConns(5)
			DB.SetConnMaxLifetime(30 * time.Minute)
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}
