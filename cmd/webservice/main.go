package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimikegami/e-commerce/catalog-service/config"
	"github.com/alimikegami/e-commerce/catalog-service/internal/app"
	circuitbreaker "github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/storage"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()

	db, err := mongodb.ConnectToMongoDB(fmt.Sprintf("mongodb://%s:%s", config.MongoDBConfig.DBHost, config.MongoDBConfig.DBPort), config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	kafkaProducer, err := kafka.CreateKafkaProducer(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Kafka")
	}
	defer kafkaProducer.Close()

	kafkaReader := kafka.CreateKafkaReader(config)

	imageProvider, err := storage.CreateImageProvider(config.StorageConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image provider")
	}

	application := app.App{
		DB:            db,
		Config:        config,
		Producer:      kafkaProducer,
		Reader:        kafkaReader,
		ImageProvider: storage.WithCircuitBreaker(imageProvider, circuitbreaker.CreateCircuitBreaker[struct{}]("image-storage")),
	}

	if err := application.Setup(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up application")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-quit
		if err := application.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server gracefully")
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}

	<-stopped
}
