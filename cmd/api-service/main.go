package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cgrycki/workflow-test-backend/internal/api"
	"github.com/cgrycki/workflow-test-backend/pkg/config"
	"github.com/cgrycki/workflow-test-backend/pkg/dynamo"
	"github.com/cgrycki/workflow-test-backend/pkg/rabbitmq"
	"github.com/cgrycki/workflow-test-backend/pkg/redisstore"
	"github.com/cgrycki/workflow-test-backend/pkg/session"

	_ "github.com/cgrycki/workflow-test-backend/docs"
)

// @title           Workflow Event API
// @version         1.0
// @description     A RESTful API over workflow events. Events are stored in DynamoDB, sessions in Redis, and every mutation publishes a lifecycle message to RabbitMQ for the workflow consumer.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[API] Starting api-service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Failed to load config: %v", err)
	}

	// Connect to DynamoDB
	storeCfg := dynamo.Config{
		Region:       cfg.AWSRegion,
		Endpoint:     cfg.DynamoEndpoint,
		TableName:    cfg.EventsTable,
		QueryTimeout: cfg.StoreTimeout,
	}
	dynamoClient, err := dynamo.Connect(context.Background(), storeCfg)
	if err != nil {
		log.Fatalf("[API] Failed to connect to DynamoDB: %v", err)
	}
	store := dynamo.NewEventStore(dynamoClient, storeCfg)

	// Connect to Redis (session store)
	redisClient, err := redisstore.Connect(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	sessions := redisstore.NewSessionStore(redisClient)

	// Connect to RabbitMQ
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	// Create publisher
	publisher, err := rabbitmq.NewPublisher(rmqConn)
	if err != nil {
		log.Fatalf("[API] Failed to create publisher: %v", err)
	}
	defer publisher.Close()

	// Session resolution for the create path
	resolver := &session.Resolver{
		Store: sessions,
		Exchanger: &session.TokenExchanger{
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthSecret,
		},
		Timeout:     cfg.ExchangeTimeout,
		RequireAuth: cfg.RequireAuth,
	}

	// Setup handlers and router
	handler := api.NewEventHandler(store, publisher, sessions, cfg.FrontendURI, cfg.FormID)
	router := api.NewRouter(handler, resolver)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Listening on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[API] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[API] Server forced to shutdown: %v", err)
	}
	log.Println("[API] Server exited gracefully")
}
