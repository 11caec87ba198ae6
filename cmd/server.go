//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"bitbucket.org/crgw/haulier-rates/internal/surcharge"
	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"bitbucket.org/crgw/haulier-rates/internal/tools/logger"
	"bitbucket.org/crgw/haulier-rates/internal/tools/redisfactory"
	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"bitbucket.org/crgw/haulier-rates/internal/web"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultRateTablePath = "./data/haulier-prices.xlsx"

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")
		_ = httpServer.Shutdown(context.Background())
	}()

	// Notify stop channel if SIGINT or SIGTERM is received
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

func loadRateTable(log *zerolog.Logger) (*ratetable.Table, error) {
	path := os.Getenv("RATE_TABLE_PATH")
	if path == "" {
		path = defaultRateTablePath
	}

	slowLog := slowlog.CreateLogger(log)
	slowLog.Start("load-rate-table")
	defer slowLog.Stop("load-rate-table")

	table, err := ratetable.LoadFile(path, ratetable.DefaultLayout)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("entries", table.Len()).
		Str("jodaSurcharge", table.JodaSurcharge().String()).
		Msg("Rate table loaded")

	return table, nil
}

func main() {
	_ = godotenv.Load(".env")
	log := logger.New(os.Getenv("LOG_LEVEL"))

	table, err := loadRateTable(log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load rate table")
		os.Exit(1)
	}

	redisFactory := redisfactory.New()

	cache := caching.NewMemoryCache()
	if client := redisFactory.SurchargeStoreClient(); client != nil {
		cache = caching.NewRedisCache(client)
	} else {
		log.Warn().Msg("SURCHARGE_REDIS_URI not set, Joda surcharge overrides are kept in memory")
	}

	surcharges := surcharge.NewService(
		surcharge.NewStore(cache),
		surcharge.NewFetcher(os.Getenv("JODA_SURCHARGE_URL"), log),
	)

	appRouter := web.SetupRouter(log, table, surcharges, redisFactory)

	var host string
	if os.Getenv("TEST") == "true" {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, os.Getenv("PORT")),
		Handler: appRouter,
	}

	code := serverApp(httpServer, log)
	redisFactory.Close()
	os.Exit(code)
}
