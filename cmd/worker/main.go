package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/config"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/broker"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/cache"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/database/postgres"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	productRepo "github.com/JhnDrwnl/appDevFinal/internal/product/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/stock/listener"
	stockRepo "github.com/JhnDrwnl/appDevFinal/internal/stock/repository"
	stockUC "github.com/JhnDrwnl/appDevFinal/internal/stock/usecase"
)

// The worker consumes reservation lifecycle events and applies the stock
// deductions for completed reservations.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()
	appLogger.Info("starting stock worker", zap.String("env", cfg.Server.AppEnv))

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	store := docstore.NewPGStore(db)
	products := productRepo.NewDocRepository(store)
	stocks := stockRepo.NewDocRepository(store)

	stockService := stockUC.NewStockUseCase(stocks, products, redisClient, appLogger)

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reservationListener := listener.NewListener(consumer, stockService, appLogger)
	go reservationListener.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down stock worker")
	cancel()
}
