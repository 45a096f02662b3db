package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"whenwasit/internal/events"
	"whenwasit/internal/httpserver"
	"whenwasit/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := events.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load event catalog")
	}

	// A broken database is not fatal: the server degrades to the bundled
	// catalog and date-seeded selection.
	db, err := openDB(getEnv("DB_PATH", "./data/whenwasit.db"))
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, running in fallback mode")
		db = nil
	} else if err := migrate(db); err != nil {
		log.Warn().Err(err).Msg("migrations failed, running in fallback mode")
		_ = db.Close()
		db = nil
	} else if err := seedEvents(db); err != nil {
		log.Warn().Err(err).Msg("seeding events failed")
	}

	sessions := store.NewMemoryStore()
	srv := httpserver.New(db, sessions)
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting whenwasit server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
