package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort        string
	MetricsPort        string
	Environment        string
	MongoDBConfig      MongoDBConfig
	KafkaConfig        KafkaConfig
	JWTSecret          string
	TracingConfig      TracingConfig
	StorageConfig      StorageConfig
	ImageCleanupConfig ImageCleanupConfig
}

type MongoDBConfig struct {
	DBHost string
	DBPort string
	DBName string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

// StorageConfig points at the S3 bucket that hosts product images.
type StorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type ImageCleanupConfig struct {
	MaxAttempts   int
	SweepInterval time.Duration
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		Environment: getEnv("ENVIRONMENT", "development"),
		MongoDBConfig: MongoDBConfig{
			DBHost: os.Getenv("DB_HOST"),
			DBPort: os.Getenv("DB_PORT"),
			DBName: getEnv("DB_NAME", "catalog_service"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		StorageConfig: StorageConfig{
			Region:          os.Getenv("AWS_REGION"),
			Bucket:          os.Getenv("AWS_BUCKET"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
		},
		ImageCleanupConfig: ImageCleanupConfig{
			MaxAttempts:   5,
			SweepInterval: time.Minute,
		},
	}

	if brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION")); err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	if maxAttempts, err := strconv.Atoi(os.Getenv("IMAGE_CLEANUP_MAX_ATTEMPTS")); err == nil && maxAttempts > 0 {
		conf.ImageCleanupConfig.MaxAttempts = maxAttempts
	}

	if interval, err := time.ParseDuration(os.Getenv("IMAGE_CLEANUP_SWEEP_INTERVAL")); err == nil && interval > 0 {
		conf.ImageCleanupConfig.SweepInterval = interval
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
