package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Connect opens the embedded SQLite database at the given path and verifies
// connectivity. The pool is capped at a single connection because SQLite
// allows only one writer at a time.
func Connect(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logrus.WithField("path", path).Info("Successfully connected to database")
	return db, nil
}

// Migrate runs the database schema
func Migrate(db *sql.DB, schemaPath string) error {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	statements := parseSQLStatements(string(schema))
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("error executing schema statement: %w", err)
		}
	}

	logrus.Info("Database schema migration completed successfully")
	return nil
}

// parseSQLStatements splits the schema into individual statements, dropping
// comment lines and empty fragments.
func parseSQLStatements(schema string) []string {
	var statements []string
	for _, raw := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, trimmed)
		}
		statement := strings.Join(lines, "\n")
		if statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// Close closes the database connection
func Close(db *sql.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Error("Error closing database connection")
		} else {
			logrus.Info("Database connection closed")
		}
	}
}
