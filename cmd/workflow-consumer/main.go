package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cgrycki/workflow-test-backend/internal/workflow"
	"github.com/cgrycki/workflow-test-backend/pkg/config"
	"github.com/cgrycki/workflow-test-backend/pkg/rabbitmq"
	"github.com/cgrycki/workflow-test-backend/pkg/redisstore"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Workflow] Starting workflow-consumer...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Workflow] Failed to load config: %v", err)
	}

	// Connect to Redis
	redisClient, err := redisstore.Connect(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("[Workflow] Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Connect to RabbitMQ
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[Workflow] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	// Create consumer
	consumer := workflow.NewConsumer(redisstore.NewWorkflowLog(redisClient))

	consumerCfg := rabbitmq.ConsumerConfig{
		QueueName:    "workflow.event.lifecycle",
		DLQName:      "dlq.workflow.event.lifecycle",
		RoutingKeys:  []string{"event.created", "event.packaged", "event.deleted"},
		ConsumerName: "workflow-consumer",
	}

	if err := rabbitmq.SetupConsumer(rmqConn, consumerCfg, consumer.HandleMessage); err != nil {
		log.Fatalf("[Workflow] Failed to setup consumer: %v", err)
	}

	log.Println("[Workflow] Consumer is running. Waiting for messages...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Workflow] Shutting down...")
}
