package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/cinema-booking/internal/adapters/mongo"
	"github.com/robertarktes/cinema-booking/internal/adapters/postgres"
	redisadapter "github.com/robertarktes/cinema-booking/internal/adapters/redis"
	"github.com/robertarktes/cinema-booking/internal/booking"
	"github.com/robertarktes/cinema-booking/internal/catalog"
	"github.com/robertarktes/cinema-booking/internal/config"
	httphandler "github.com/robertarktes/cinema-booking/internal/http"
	"github.com/robertarktes/cinema-booking/internal/idempotency"
	"github.com/robertarktes/cinema-booking/internal/observability"
	"github.com/robertarktes/cinema-booking/internal/ratelimit"
	"github.com/robertarktes/cinema-booking/internal/scheduling"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := postgres.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database("cinema"), logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	seatLocks := redisadapter.NewSeatLock(redisCache, cfg.SeatLockTTL)
	idemp := idempotency.NewIdempotency(redisCache, time.Hour)
	rl := ratelimit.NewRateLimiter(redisCache)

	movieCatalog := catalog.NewCatalog(repo, logger)
	scheduler := scheduling.NewScheduler(repo, repo, logger)
	ledger := booking.NewLedger(repo, repo, seatLocks, logger)

	// events are relayed to RabbitMQ by cmd/outbox-publisher
	handlers := httphandler.NewHandlers(movieCatalog, scheduler, ledger, idemp, audit, repo, redisCache, audit)
	r := httphandler.SetupRouter(handlers, logger, rl)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
