package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// Open opens (creating if needed) the SQLite database at dbPath and
// ensures the schema exists.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		database.SetMaxOpenConns(1)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logx.Info().Str("path", dbPath).Msg("database initialized")
	return database, nil
}

func createTables(database *sql.DB) error {
	createButtonsTable := `
	CREATE TABLE IF NOT EXISTS remote_buttons (
		id TEXT PRIMARY KEY,
		mac_address TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		press_count INTEGER NOT NULL DEFAULT 0,
		last_press DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createButtonsTable); err != nil {
		return fmt.Errorf("failed to create remote_buttons table: %w", err)
	}

	createIndex := `CREATE INDEX IF NOT EXISTS idx_remote_mac_address ON remote_buttons(mac_address);`
	if _, err := database.Exec(createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}
