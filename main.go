package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	appconfig "github.com/muhammadolammi/resumescreener/internal/config"
	"github.com/muhammadolammi/resumescreener/internal/database"
	"github.com/muhammadolammi/resumescreener/internal/logger"
	"github.com/muhammadolammi/resumescreener/internal/pipeline"
)

func main() {
	cfg, err := appconfig.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := cfg.ValidateWorker(); err != nil {
		logger.Fatal().Err(err).Msg("missing worker configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening db")
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := migrate(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating aws config")
	}

	analyzer, _, err := pipeline.Build(ctx, cfg, logger.Component("ranker"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build analyzer")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("error connecting to rabbitmq")
	}
	defer conn.Close()

	workerConfig := WorkerConfig{
		DB:          database.New(db),
		Objects:     &r2Store{client: newR2Client(awsConfig, cfg.R2.AccountID), bucket: cfg.R2.Bucket},
		Updates:     &amqpPublisher{conn: conn},
		Analyzer:    analyzer,
		RABBITMQUrl: cfg.RabbitMQURL,
		Log:         logger.Component("worker"),
	}

	logger.Info().Int("workers", cfg.Workers).Msg("starting consumer pool")
	workerConfig.StartConsumerWorkerPool(ctx, cfg.Workers)
	logger.Info().Msg("consumer pool stopped")
}
