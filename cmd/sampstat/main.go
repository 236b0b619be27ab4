// main is the entry point of the sampstat service.
// It initializes the configuration, logger, GeoIP provider, query
// service, and starts the HTTP server.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sampstat/sampstat/internal/config"
	"github.com/sampstat/sampstat/internal/geoip"
	"github.com/sampstat/sampstat/internal/logger"
	"github.com/sampstat/sampstat/internal/mock"
	"github.com/sampstat/sampstat/internal/query"
	"github.com/sampstat/sampstat/internal/server"
	"github.com/sampstat/sampstat/internal/transport"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting sampstat service...")

	// GeoIP enrichment is optional; the service runs without it.
	var geoProvider *geoip.Provider
	if !cfg.GeoIP.Disable {
		if err := geoip.EnsureDB(cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
			log.Error().Err(err).Msg("Failed to download GeoIP database")
		}

		var err error
		geoProvider, err = geoip.Open(cfg.GeoIP.Path)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open GeoIP database, country enrichment disabled")
			geoProvider = nil
		} else {
			defer func() {
				if err := geoProvider.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing GeoIP provider")
				}
			}()
		}
	}

	// Synthetic fallback generator, optionally with a fixed jitter seed.
	var src rand.Source
	if cfg.Mock.Seed != 0 {
		src = rand.NewSource(cfg.Mock.Seed)
	}
	synth := mock.New(src)

	svc := query.New(transport.Options{
		Timeout:    cfg.Query.Timeout,
		BufferSize: cfg.Query.BufferSize,
	}, synth, geoProvider)

	srvHandler := server.New(svc, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Query.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
