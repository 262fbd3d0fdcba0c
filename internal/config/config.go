package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	PostgresDSN  string
	MongoURI     string
	RedisAddr    string
	RabbitURL    string
	SeatLockTTL  time.Duration
	OTLPEndpoint string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	seatLockTTL, _ := time.ParseDuration(os.Getenv("SEAT_LOCK_TTL"))
	if seatLockTTL == 0 {
		seatLockTTL = 30 * time.Second
	}

	return &Config{
		Port:         port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		MongoURI:     os.Getenv("MONGO_URI"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RabbitURL:    os.Getenv("RABBIT_URL"),
		SeatLockTTL:  seatLockTTL,
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
