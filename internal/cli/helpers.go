package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/SeamusWaldron/twisty/internal/config"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

// loadConfig reads --config and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg, nil
}

// openDB opens and migrates the configured database.
func openDB(cfg config.Config) (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// stderrLogger logs to stderr with --verbose and discards otherwise.
func stderrLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "twisty: ", log.LstdFlags|log.Lmicroseconds)
}

// fileLogger logs next to the database with --verbose, so full-screen
// programs keep the terminal to themselves.
func fileLogger(cfg config.Config) (*log.Logger, func(), error) {
	if !verbose {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	path := filepath.Join(filepath.Dir(cfg.DBPath()), "twisty.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return log.New(f, "twisty: ", log.LstdFlags|log.Lmicroseconds), func() { f.Close() }, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}
