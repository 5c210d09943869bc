package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"gitea.kood.tech/petrkubec/dance-me/backend/store"
	"github.com/rs/zerolog"
)

// server bundles what the routes need.
type server struct {
	cfg    *Config
	engine discoverer
	creds  credentialStore
	logger zerolog.Logger
	// perRequest wraps authenticated discovery routes, e.g. with dataloaders.
	perRequest func(http.Handler) http.Handler
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	secret := []byte(s.cfg.JWTSecret)
	wrap := func(h http.HandlerFunc) http.Handler {
		h = authenticate(secret, h)
		if s.perRequest != nil {
			return s.perRequest(h)
		}
		return h
	}

	mux.Handle("/login", loginHandler(s.creds, secret))

	// Discovery
	mux.Handle("/discover", wrap(discoverHandler(s.engine, s.cfg.DiscoverTimeout)))
	mux.Handle("/discover/count", wrap(discoverCountHandler(s.engine, s.cfg.DiscoverTimeout)))
	mux.Handle("/styles", wrap(stylesHandler(s.engine)))
	mux.Handle("/trips/overlaps", wrap(tripOverlapsHandler(s.engine, time.Now)))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return withRequestLogging(s.logger, withCORS(s.cfg.CORSOrigins, mux))
}

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := loadConfig()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("loading configuration")
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("configuring logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	pg := store.New(db)
	engine, err := discovery.NewEngine(cfg.engineConfig(), pg.Deps(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating discovery engine")
	}

	s := &server{
		cfg:        cfg,
		engine:     engine,
		creds:      sqlCredentials{db: db},
		logger:     logger,
		perRequest: dataLoaderMiddleware(db),
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.Addr).Msg("starting Dance Me backend")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serving http")
	}
}
