// main.go
//
// Entry point for the have-fun score keeper.
// Loads configuration, opens the persistence backend, builds one store per
// game and serves the JSON API.

package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/havefun/internal/accumulator"
	"github.com/robalobadob/havefun/internal/category"
	"github.com/robalobadob/havefun/internal/httpserver"
	"github.com/robalobadob/havefun/internal/tally"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.level())

	truco, err := tally.RulesFor(cfg.TrucoCeiling)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open storage")
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	ctx := context.Background()
	srv := httpserver.New(httpserver.Deps{
		Chinchon:     accumulator.NewStore(ctx, accumulator.Chinchon, backend),
		DiezMil:      accumulator.NewStore(ctx, accumulator.DiezMil, backend),
		Generala:     category.NewStore(ctx, backend),
		Truco:        tally.NewStore(ctx, truco, backend),
		WinDebounce:  cfg.WinDebounce,
		ClientOrigin: cfg.ClientOrigin,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.StorageBackend).
		Int("trucoCeiling", truco.Ceiling).
		Msg("starting havefun server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}
