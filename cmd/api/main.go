package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/cloud"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/config"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/crop"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/http"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/provider"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/repository"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	source := provider.NewRateLimited(
		provider.NewMockNASA(config.ProviderSeed(), config.ProviderLatency()),
		config.ProviderRPS(), config.ProviderBurst(),
	)

	deps := service.Deps{
		Store:    repository.New(db),
		Provider: source,
		Crops:    crop.Builtin(),
	}
	if config.UseCloudServices() {
		wireCloud(&deps)
	}
	svcs := service.New(deps)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.CORSOrigins(),
		AllowMethods: "GET,POST,OPTIONS",
	}))

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("provider", source.Name()).Bool("cloud", config.UseCloudServices()).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}

// wireCloud attaches the AWS collaborators. Any client that fails to initialise is left nil
// and its features report as disabled.
func wireCloud(deps *service.Deps) {
	ctx := context.Background()
	region := config.AWSRegion()

	if arn := config.SNSTopicArn(); arn != "" {
		if c, err := cloud.NewSNSClient(ctx, region, arn); err != nil {
			log.Error().Err(err).Msg("sns init failed")
		} else {
			deps.Notifier = c
		}
	}
	if c, err := cloud.NewS3Client(ctx, region, config.S3Bucket()); err != nil {
		log.Error().Err(err).Msg("s3 init failed")
	} else {
		deps.Archiver = c
	}
	if c, err := cloud.NewDynamoDBClient(ctx, region, config.AlertsTable()); err != nil {
		log.Error().Err(err).Msg("dynamodb init failed")
	} else {
		deps.History = c
	}
}
