package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/auth"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/cart"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/consumer"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/gateway"
	h "github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/http"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/mail"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/orders"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	OrdersMigrations   string
	AccountsMigrations string

	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string

	KafkaBrokers string

	SendGridAPIKey string
	MailFrom       string
	ResetBaseURL   string

	Currency string
}

func loadConfig() *Config {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             port,
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "storefront"),
		OrdersMigrations:   getEnv("ORDERS_MIGRATIONS_PATH", "internal/orders/migrations"),
		AccountsMigrations: getEnv("ACCOUNTS_MIGRATIONS_PATH", "internal/auth/migrations"),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com"),
		GatewayKeyID:     getEnv("GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getEnv("GATEWAY_KEY_SECRET", ""),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "support@xolvetech.in"),
		ResetBaseURL:   getEnv("RESET_BASE_URL", "https://xolvetech.in/reset"),

		Currency: getEnv("CURRENCY", "INR"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Cart storage
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cartService := cart.NewService(cart.NewMongoRepository(mongoDB), cart.NewRedisCache(redisClient))

	// Order storage
	creds := &orders.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.OrdersMigrations,
	}
	orderRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer orderRepo.Close()

	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run order migrations: %v", err)
	}
	log.Printf("Order migrations applied")

	accountRepo := auth.NewPostgresRepository(orderRepo.DB())
	if err := accountRepo.RunMigrations(cfg.AccountsMigrations); err != nil {
		log.Fatalf("Failed to run account migrations: %v", err)
	}
	log.Printf("Account migrations applied")

	// Payment gateway
	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	orderService := orders.NewService(orderRepo, gatewayClient, cartService, cfg.Currency)

	// Sessions and password reset
	mailer := mail.NewSendGridClient(cfg.SendGridAPIKey, cfg.MailFrom)
	authService := auth.NewService(
		accountRepo,
		auth.NewRedisSessionStore(redisClient),
		auth.NewRedisResetTokenStore(redisClient),
		mailer,
		cfg.ResetBaseURL,
	)

	// Gateway events also arrive over kafka; both channels reconcile
	// through the same order service.
	paymentConsumer := consumer.NewConsumer(orderService, cfg.KafkaBrokers)
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	go paymentConsumer.Run(consumerCtx)
	log.Printf("Payment consumer started on %s", cfg.KafkaBrokers)

	router := h.NewRouter(h.RouterDeps{
		Sessions:       authService,
		Cart:           h.NewCartHandler(cartService, cfg.RequestTimeout),
		Checkout:       h.NewCheckoutHandler(cartService, orderService, gatewayClient, cfg.RequestTimeout),
		Orders:         h.NewOrdersHandler(orderService, cfg.RequestTimeout),
		Payment:        h.NewPaymentHandler(orderService, cfg.RequestTimeout),
		Auth:           h.NewAuthHandler(authService, cfg.RequestTimeout),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancelConsumer()
	paymentConsumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}

	log.Println("server exited")
}
