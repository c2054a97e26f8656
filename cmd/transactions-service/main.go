/**
 * @description
 * This is the main entry point for the transactions-service. It is responsible for
 * initializing all components of the service, including configuration, database
 * connection, the clients-service API client, message brokers, repositories, the
 * core application service, and the HTTP server. It wires everything together and
 * starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - internal/transactions/*: Internal packages for the service.
 * - pkg/clientsapi: Client for the clients-service API.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/internal/transactions/api"
	"github.com/thauan01/project-bank/internal/transactions/app"
	"github.com/thauan01/project-bank/internal/transactions/config"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/clientsapi"
	"github.com/thauan01/project-bank/pkg/rabbitmq"
)

func main() {
	// Load .env if present; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting transactions-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	poolConfig.MaxConns = 50
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts.
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the RabbitMQ producer to publish transfer events. Transfer
	// intake refuses to register transfers it cannot announce, so a missing
	// broker is fatal here.
	producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"rabbitmq producer init failed\" err=%v", err)
	}
	defer producer.Close()
	log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")

	// Initialize the client for the clients-service.
	clientsClient := clientsapi.NewClient(cfg.ClientsAPIURL)

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Initialize the core application service with its dependencies.
	transferService := app.NewService(repository, clientsClient, producer)

	// Wire up the settlement confirmation consumer.
	statusConsumer := app.NewTransferStatusConsumer(repository, cfg.MaxDeliveryAttempts)

	rabbitConsumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, cfg.PrefetchCount)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"rabbitmq consumer init failed\" err=%v", err)
	}
	defer rabbitConsumer.Close()

	confirmationBindings := map[string]rabbitmq.Handler{
		event.RoutingKeyTransferApplied: statusConsumer.HandleTransferResolved,
		event.RoutingKeyTransferFailed:  statusConsumer.HandleTransferResolved,
	}
	if err := rabbitConsumer.ConsumeWithBindings(event.Exchange, cfg.ConfirmationQueue, confirmationBindings); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"confirmation consumer start failed\" err=%v", err)
	}
	log.Printf("level=info component=bootstrap msg=\"confirmation consumer started\" queue=%s", cfg.ConfirmationQueue)

	// Initialize the API handlers and router.
	transferHandlers := api.NewTransferHandlers(transferService)
	router := api.TransferRoutes(transferHandlers)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
