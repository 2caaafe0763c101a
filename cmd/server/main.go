package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-service/config"
	"parking-service/internal/api"
	"parking-service/internal/broker"
	"parking-service/internal/redisclient"
	"parking-service/internal/service"
	"parking-service/internal/store"
	"parking-service/internal/util"
	"parking-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting parking service")

	tp, err := util.InitTracer("parking-service", cfg.Observ.JaegerEndpoint, cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer schemaCancel()
	if err := db.EnsureSchema(schemaCtx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema ensured")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicParking)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	tokenTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	authService := service.NewAuthService(db, redisClient, tokenTTL)
	lotService := service.NewLotService(db, redisClient)
	sessionService := service.NewSessionService(db, eventPublisher)
	paymentService := service.NewPaymentService(db, eventPublisher)
	vehicleService := service.NewVehicleService(db)
	reservationService := service.NewReservationService(db)
	adminService := service.NewAdminService(db)
	occupancyTracker := service.NewOccupancyTracker(db, redisClient)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	occupancyConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicParking, cfg.Kafka.ConsumerGroup)
	occupancyWorker := worker.NewOccupancyWorker(occupancyConsumer, occupancyTracker)
	go func() {
		if err := occupancyWorker.Start(workerCtx); err != nil {
			log.Printf("Occupancy worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(db, authService, lotService, sessionService,
		paymentService, vehicleService, reservationService, adminService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	occupancyWorker.Stop()

	log.Println("Server exited")
}
