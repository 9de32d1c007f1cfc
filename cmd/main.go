package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/memory"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/postgres"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/rabbitmq"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/whatsapp"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/checkout"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/conversation"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/scheduler"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"

	amqpAdapter "github.com/dhruvxsingh/zenocon-bot/internal/adapter/amqp"
	catalogAPI "github.com/dhruvxsingh/zenocon-bot/internal/adapter/catalog"
	httpAdapter "github.com/dhruvxsingh/zenocon-bot/internal/adapter/http"
	redisAdapter "github.com/dhruvxsingh/zenocon-bot/internal/adapter/redis"
	catalogApp "github.com/dhruvxsingh/zenocon-bot/internal/app/catalog"
)

func main() {
	mode := flag.String("mode", "", "Service mode: webhook-service, event-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Local development secrets; missing file is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "webhook-service":
		runWebhookService(ctx, cfg, lgr)

	case "event-subscriber":
		runEventSubscriber(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runWebhookService(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	sessions := buildSessionRepository(cfg, lgr)
	orders := buildOrderRepository(ctx, cfg, lgr)
	publisher := buildPublisher(cfg, lgr)

	sender := whatsapp.NewSender(cfg.WhatsApp, lgr)

	api := catalogAPI.NewClient(cfg.WhatsApp, cfg.Catalog.RequestTimeout(), lgr)
	catalogSvc := catalogApp.NewService(api, cfg.Catalog.RefreshTTL(), cfg.Pricing.DefaultPricePaise, lgr)

	sched := scheduler.New()
	defer sched.Stop()

	pricing := domain.PricingRules{
		FreeDeliveryThresholdPaise: cfg.Pricing.FreeDeliveryThresholdPaise,
		DeliveryFeePaise:           cfg.Pricing.DeliveryFeePaise,
		TaxRatePercent:             cfg.Pricing.TaxRatePercent,
		DefaultPricePaise:          cfg.Pricing.DefaultPricePaise,
	}
	checkoutSvc := checkout.NewService(sessions, orders, catalogSvc, sender, publisher, sched, pricing, cfg.Schedule, lgr)
	conversationSvc := conversation.NewService(sessions, orders, catalogSvc, checkoutSvc, sender, cfg.Loyalty, lgr)

	webhookHandler := httpAdapter.NewWebhookHandler(cfg.WhatsApp.VerifyToken, conversationSvc, lgr)
	ordersHandler := httpAdapter.NewOrdersHandler(orders, lgr)
	router := httpAdapter.NewRouter(webhookHandler, ordersHandler, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Webhook Service started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":     cfg.Server.Port,
		"sessions": cfg.Storage.Sessions,
		"orders":   cfg.Storage.Orders,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Webhook Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runEventSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn)
	handler := amqpAdapter.NewEventHandler(lgr)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lgr.Info("service_started", "Event Subscriber started", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	go func() {
		if err := consumer.ConsumeOrderEvents(consumeCtx, handler.Handle); err != nil && consumeCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming order events", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Event Subscriber", "shutdown", nil)
}

func buildSessionRepository(cfg *config.Config, lgr logger.Logger) interfaces.SessionRepository {
	switch cfg.Storage.Sessions {
	case "redis":
		repo, err := redisAdapter.NewSessionRepository(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
		return repo
	default:
		return memory.NewSessionRepository()
	}
}

func buildOrderRepository(ctx context.Context, cfg *config.Config, lgr logger.Logger) interfaces.OrderRepository {
	switch cfg.Storage.Orders {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return postgres.NewOrderRepository(db)
	default:
		return memory.NewOrderRepository()
	}
}

func buildPublisher(cfg *config.Config, lgr logger.Logger) interfaces.EventPublisher {
	if !cfg.RabbitMQ.Enabled {
		return rabbitmq.NopPublisher{}
	}

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})
	return rabbitmq.NewPublisher(mqConn)
}
