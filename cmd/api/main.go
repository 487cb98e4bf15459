package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fooddash/internal/configs"
	httpdelivery "fooddash/internal/delivery/http"
	"fooddash/internal/delivery/kafka"
	"fooddash/internal/repository"
	"fooddash/internal/repository/mongodb"
	"fooddash/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logrus.Fatalf("mongo connect: %s", err)
	}
	defer func() {
		if derr := db.Client().Disconnect(context.Background()); derr != nil {
			logrus.Errorf("mongo disconnect: %v", derr)
		}
	}()
	logrus.Print("connected to mongo")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logrus.Fatalf("ensure indexes: %s", err)
	}

	pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaTopic)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			logrus.Errorf("publisher close: %v", cerr)
		}
	}()

	repo := repository.NewRepository(db, cfg.OrderCacheTTL)
	defer repo.Close()
	svc := service.NewService(repo, pub, cfg.Pricing)

	h := httpdelivery.NewHandler(svc, cfg.JWTSecret)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}
	logrus.Print("service stopped")
}
