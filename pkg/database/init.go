package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// InitializeDatabase creates the application database if it doesn't exist.
// It connects to the default 'postgres' database to do so.
func InitializeDatabase(cfg *config.Config) error {
	app := FromCentralConfig(cfg.Database)

	admin := app
	admin.DBName = "postgres"

	conn, err := openSQLDB(admin)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close()

	if err := createDatabaseIfNotExists(conn, app.DBName); err != nil {
		return fmt.Errorf("failed to create database %q: %w", app.DBName, err)
	}
	return nil
}

func createDatabaseIfNotExists(conn *sql.DB, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := conn.QueryRowContext(ctx, query, dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}
