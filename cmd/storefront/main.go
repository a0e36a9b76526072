package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/events"
	"github.com/trunglearn/PerfumeShop-sub001/internal/gateway"
	"github.com/trunglearn/PerfumeShop-sub001/internal/localcart"
	"github.com/trunglearn/PerfumeShop-sub001/internal/notify"
	"github.com/trunglearn/PerfumeShop-sub001/internal/product"
	"github.com/trunglearn/PerfumeShop-sub001/internal/reconcile"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

type Config struct {
	HTTPPort        string
	ShopAPIURL      string
	RedisAddr       string
	RedisPassword   string
	CartDBPath      string
	MigrationsPath  string
	KafkaBrokers    []string
	JWTSecret       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	PollInterval    time.Duration
	PollBudget      time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ShopAPIURL:      getEnv("SHOP_API_URL", "http://localhost:3000/api"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CartDBPath:      getEnv("CART_DB_PATH", "guest_cart.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		PollInterval:    3 * time.Second,
		PollBudget:      2 * time.Minute,
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
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

	// Guest cart storage
	store, err := localcart.NewSQLiteStore(cfg.CartDBPath)
	if err != nil {
		log.Fatalf("Failed to open guest cart store: %v", err)
	}
	defer store.Close()
	if err := store.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Guest cart store ready at %s", cfg.CartDBPath)

	// Remote cart cache
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

	notifier := notify.NewMemoryNotifier()
	localSvc := localcart.NewService(store, notifier)

	clients := func(token string) remotecart.API {
		return restapi.NewClient(cfg.ShopAPIURL, token)
	}
	cache := remotecart.NewRedisCache(redisClient)
	remoteQuery := remotecart.NewQuery(clients, cache, notifier)

	// public product endpoints need no bearer token
	products := product.NewClient(restapi.NewClient(cfg.ShopAPIURL, ""))

	viewSvc := reconcile.NewService(localSvc, remoteQuery, products)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	cartHandler := gateway.NewCartHandler(viewSvc, localSvc, remoteQuery, products, notifier)
	checkoutHandler := gateway.NewCheckoutHandler(clients, cfg.PollInterval, cfg.PollBudget)

	router := gateway.NewStorefrontRouter(verifier, cartHandler, checkoutHandler, cfg.RequestTimeout)

	// Order-completed consumer empties carts after checkout
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(localSvc, remoteQuery, cfg.KafkaBrokers...)
		defer consumer.Close()
		go consumer.Run(consumerCtx)
		log.Printf("Order-completed consumer started (brokers: %v)", cfg.KafkaBrokers)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.PollBudget + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront gateway starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopConsumer()
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
