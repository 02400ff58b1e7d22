// Applies migrations/*.sql in lexical order, recording applied files in
// schema_migrations so each runs once.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/reelboost/reelboost-api/internal/config"
	"github.com/reelboost/reelboost-api/internal/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema_migrations")
	}

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		var applied bool
		if err := db.Get(&applied, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, name); err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("Failed to check migration state")
		}
		if applied {
			continue
		}

		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("Failed to read migration")
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to begin transaction")
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			log.Fatal().Err(err).Str("file", name).Msg("Migration failed")
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			log.Fatal().Err(err).Str("file", name).Msg("Failed to record migration")
		}
		if err := tx.Commit(); err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("Failed to commit migration")
		}

		fmt.Println("applied", name)
	}
}
