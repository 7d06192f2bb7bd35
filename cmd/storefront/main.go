package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ahinestrog/mystorefront/catalog"
	"github.com/ahinestrog/mystorefront/config"
	"github.com/ahinestrog/mystorefront/session"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	must(err)
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Info().
		Str("catalog", cfg.CatalogDSN).
		Int("page_size", cfg.PageSize).
		Msg("starting storefront")

	// Catalogo
	db, err := catalog.OpenSQLite(cfg.CatalogDSN)
	must(err)
	defer db.Close()

	seed, err := catalog.DefaultSeed()
	must(err)
	repo := catalog.NewSQLiteRepo(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SeedOnStart {
		must(catalog.Open(ctx, repo, seed))
		log.Info().Int("products", len(seed.Products)).Msg("catalog seeded")
	} else {
		must(catalog.Open(ctx, repo, nil))
	}

	sess := session.New(
		session.WithLogger(log.Logger),
		session.WithRecentSearches(cfg.RecentSearches),
	)
	svc := catalog.NewService(repo,
		catalog.WithLogger(log.Logger),
		catalog.WithRecentSearches(sess.Recent),
		catalog.WithTrending(seed.Trending),
	)

	sh := NewShell(svc, sess, os.Stdout, cfg.PageSize, log.Logger)
	defer sh.Close()

	// Señales para apagado limpio: solo cancelan, Run vuelve y la sesion se cierra aqui
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Warn().Msg("shutting down...")
		cancel()
	}()

	must(sh.Run(ctx, os.Stdin))
	sess.End()
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
