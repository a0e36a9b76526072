package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/gateway"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

type Config struct {
	HTTPPort        string
	ShopAPIURL      string
	JWTSecret       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		ShopAPIURL:      getEnv("SHOP_API_URL", "http://localhost:3000/api"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
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

	clients := func(token string) remotecart.API {
		return restapi.NewClient(cfg.ShopAPIURL, token)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	adminHandler := gateway.NewAdminHandler(clients)
	router := gateway.NewAdminRouter(verifier, adminHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Admin gateway starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
