package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"printpos/config"
	"printpos/internal/api"
	"printpos/internal/broker"
	"printpos/internal/redisclient"
	"printpos/internal/service"
	"printpos/internal/store"
	"printpos/internal/util"
	"printpos/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	tp, err := util.InitTracer("printpos", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.SeedDefaultCategories(context.Background()); err != nil {
		log.Fatalf("Failed to seed finance categories: %v", err)
	}

	redis, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(db, redis)
	orderService := service.NewOrderService(db, eventPublisher, cfg.Business)
	paymentService := service.NewPaymentService(db, eventPublisher)
	statusService := service.NewStatusService(db, eventPublisher, cfg.Business.DpExpiryHours)
	financeService := service.NewFinanceService(db)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	revenueWorker := worker.NewRevenueWorker(consumer, redis, db)
	go func() {
		if err := revenueWorker.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Revenue worker stopped: %v", err)
		}
	}()

	expiryWorker := worker.NewExpiryWorker(statusService, 10*time.Minute)
	go func() {
		if err := expiryWorker.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Expiry worker stopped: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	handler := api.NewHandler(catalogService, orderService, paymentService, statusService, financeService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
