package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/cart"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/checkout"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/notification"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/notification/email"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/service"
	httptransport "github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/http"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/http/handler"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/http/middleware"
	kafkatransport "github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/kafka"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/config"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/db"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/kafka"
	outboxrepo "github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/worker"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "tienda-vinilos")
	if err != nil {
		log.Fatalf("Failed to init trace: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL, cfg.Postgres.MaxConns, cfg.Postgres.MinConns)
	if err != nil {
		log.Fatalf("error creating postgres db: %v", err)
	}

	redisClient, err := db.NewRedisClient(cfg.Redis.Addr)
	if err != nil {
		log.Fatalf("error creating redis client: %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	statsRepo := repository.NewStatsRepository(pool, logger)
	outboxRepo := outboxrepo.NewOutboxRepository(pool, logger)

	pricing := service.Pricing{
		FreeShippingFrom: cfg.Shop.FreeShippingFrom,
		ShippingFee:      cfg.Shop.ShippingFee,
		TaxRate:          cfg.Shop.TaxRate,
	}

	catalogService := service.NewCatalogService(productRepo, logger)
	orderService := service.NewOrderService(pool, orderRepo, outboxRepo, pricing, cfg.Kafka.OrderTopic, logger)
	statsService := service.NewStatsService(statsRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL, logger)

	cartStore := cart.NewStore(cart.NewRedisStorage(redisClient, cfg.Checkout.CartTTL), nil)

	checkoutWorkflow := checkout.NewWorkflow(
		checkout.NewRedisSessionStorage(redisClient, cfg.Checkout.SessionTTL),
		cartStore,
		orderService,
		checkout.Totals{
			FreeShippingFrom: cfg.Shop.FreeShippingFrom,
			ShippingFee:      cfg.Shop.ShippingFee,
			TaxRate:          cfg.Shop.TaxRate,
		},
		logger,
	)

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepo, producer, logger)
	go outboxProcessor.Start(ctx)

	emailSender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, logger)
	notificationService := notification.NewService(emailSender, logger, pool)
	consumer := kafkatransport.NewConsumer(notificationService, logger)
	go consumer.Start(ctx, cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.OrderTopic)

	app := fiber.New()

	app.Use(otelfiber.Middleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	app.Use(middleware.Timeout(cfg.HTTP.Timeout))

	handlers := &httptransport.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Product:  handler.NewProductHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartStore, catalogService, cfg.Checkout.CartTTL, logger),
		Checkout: handler.NewCheckoutHandler(checkoutWorkflow, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Stats:    handler.NewStatsHandler(statsService, logger),
	}

	httptransport.RegisterRoutes(app, handlers, cfg.JWT.Secret)

	logger.Info("Tienda de vinilos started!")

	go func() {
		log.Println("HTTP Service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		log.Printf("Error shutting down HTTP app: %v\n", err)
	} else {
		log.Println("HTTP App stopped gracefully")
	}

	if err := producer.Close(); err != nil {
		log.Printf("Error closing kafka producer: %v\n", err)
	}

	if err := tp.Shutdown(shutdownContext); err != nil {
		log.Printf("Error shutting down telemetry: %v\n", err)
	} else {
		log.Println("Telemetry stopped correctly")
	}

	pool.Close()
	log.Println("Postgres pool closed")
}
