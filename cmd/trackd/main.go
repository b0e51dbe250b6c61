package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/anatelli10/shipment-tracking/internal/api"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
	"github.com/anatelli10/shipment-tracking/internal/core/service"
	"github.com/anatelli10/shipment-tracking/internal/couriers"
	"github.com/anatelli10/shipment-tracking/internal/infrastructure/config"
	"github.com/anatelli10/shipment-tracking/internal/infrastructure/httpclient"
	"github.com/anatelli10/shipment-tracking/internal/infrastructure/oauth"
	"github.com/anatelli10/shipment-tracking/pkg/logger"
)

func main() {
	// Optional .env for local development; production uses real env vars.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env != "production",
	})

	var upsTokens ports.TokenSource
	if cfg.UPS.OAuthEnabled() {
		upsTokens = oauth.NewClientCredentials(context.Background(),
			cfg.UPS.ClientID, cfg.UPS.ClientSecret, cfg.UPS.TokenURL)
		log.Info().Msg("ups oauth bearer authentication enabled")
	}

	registry := couriers.NewDefaultRegistry(couriers.Options{UPSTokens: upsTokens})
	transport := httpclient.New(cfg.HTTP.Timeout)
	trackingService := service.NewTrackingService(
		registry, transport, ports.EnvCredentialSource{}, cfg.Environment(), log)

	e := api.NewRouter(trackingService, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting shipment tracking API")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
