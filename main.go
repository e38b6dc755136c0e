// main.go
//
// Entry point for the solver HTTP service.
//
// Startup:
//   - Load .env and the environment (internal/config).
//   - Open and migrate the history database unless DATABASE_PATH=off.
//   - Serve datasets from WORDS_DATA_DIR, or the embedded lists when unset.

package main

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/httpserver"
	"github.com/robalobadob/wordle-solver/internal/session"
	"github.com/robalobadob/wordle-solver/internal/words"
)

func main() {
	cfg := config.Load()
	cfg.ApplyLogLevel()

	var hist *history.Store
	if cfg.HistoryEnabled() {
		db, err := history.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
		}
		defer db.Close()
		if err := history.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		hist = history.NewStore(db)
	} else {
		log.Warn().Msg("history disabled; auth and /solves endpoints will answer 503")
	}

	lists := words.NewCache(words.Source(cfg.WordsDir))
	names, err := lists.Datasets()
	if err != nil || len(names) == 0 {
		log.Fatal().Err(err).Str("dir", cfg.WordsDir).Msg("no word datasets found")
	}

	srv := httpserver.New(cfg, session.NewMemoryStore(), lists, hist)
	log.Info().Str("port", cfg.Port).Strs("datasets", names).Int("workers", cfg.Workers).Msg("starting solver server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
