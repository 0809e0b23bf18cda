package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tube-service/configs"
	"tube-service/controllers"
	"tube-service/ingest"
	"tube-service/middleware"
	"tube-service/realtime"
	"tube-service/routes"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger first
	configs.InitLogger()
	logger := configs.LogWithContext("tube-service", "startup")

	logger.Info("Starting tube-service initialization")

	router := mux.NewRouter()

	// Add middleware
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.Identity)

	logger.Info("Middleware configured")

	// Initialize database connections with logging
	logger.Info("Connecting to databases...")

	if err := initializeDatabases(logger); err != nil {
		logger.Fatal("Failed to initialize databases", "error", err)
		return
	}

	// Register routes with logging
	logger.Info("Registering API routes...")
	registerRoutes(router, logger)

	// Health check endpoints
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Ready")
	}).Methods("GET")

	// Get port configuration
	port := configs.EnvPort()
	if port == "" {
		port = "3007"
	}

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("tube-service started", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	} else {
		logger.Info("Server shutdown complete")
	}
}

func initializeDatabases(logger *logrus.Entry) error {
	// Connect to MongoDB
	start := time.Now()
	err := connectMongoDB()
	if err != nil {
		logger.Error("MongoDB connection failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("mongodb connection failed: %w", err)
	}
	logger.Info("MongoDB connected successfully", "duration", time.Since(start))

	// Connect to Redis
	start = time.Now()
	err = configs.ConnectREDISDB()
	if err != nil {
		logger.Error("Redis connection failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("redis connection failed: %w", err)
	}
	logger.Info("Redis connected successfully", "duration", time.Since(start))

	return nil
}

func connectMongoDB() error {
	// Try to connect with retry logic
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		err := configs.ConnectDB()
		if err == nil {
			return nil
		}
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * time.Second)
		} else {
			return err
		}
	}
	return fmt.Errorf("failed to connect after %d retries", maxRetries)
}

func registerRoutes(router *mux.Router, logger *logrus.Entry) {
	// The live subsystem gets its collaborators injected: the broadcast
	// gateway and ingest provider are process-wide handles built once
	// here, not package globals.
	broadcaster := realtime.NewBroadcaster(
		configs.GetRedisClient(),
		configs.LogWithContext("tube-service", "realtime"),
	)
	provider := ingest.NewClient(
		configs.EnvIngestAPIURL(),
		configs.EnvIngestAPIToken(),
		configs.EnvRTMPServer(),
		configs.EnvPlaybackBaseURL(),
	)

	liveController := controllers.NewLiveController(
		controllers.NewMongoStreamStore(),
		provider,
		broadcaster,
	)
	chatController := controllers.NewChatController(
		controllers.NewMongoMessageStore(),
		controllers.NewMongoStreamStore(),
		controllers.NewMongoUserDirectory(),
		broadcaster,
	)

	routes.VideoRoutes(router)
	logger.Info("Video routes registered")

	routes.CommentRoutes(router)
	logger.Info("Comment routes registered")

	routes.LikeRoutes(router)
	logger.Info("Like routes registered")

	routes.SubscriptionRoutes(router)
	logger.Info("Subscription routes registered")

	routes.HistoryRoutes(router)
	logger.Info("History routes registered")

	routes.SearchRoutes(router)
	logger.Info("Search routes registered")

	routes.LiveRoutes(router, liveController, chatController)
	logger.Info("Live routes registered")
}
