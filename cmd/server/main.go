package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/events"
	"github.com/dinehall/ordering/internal/menu"
	"github.com/dinehall/ordering/internal/orders"
	"github.com/dinehall/ordering/internal/pricing"
	"github.com/dinehall/ordering/internal/websocket"
	"github.com/dinehall/ordering/pkg/config"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Menu snapshots come from a remote menu service when configured,
	// otherwise from the built-in seed.
	var menus menu.Provider
	if cfg.MenuServiceURL != "" {
		menus = menu.NewClient(cfg.MenuServiceURL, logger)
		logger.WithField("url", cfg.MenuServiceURL).Info("Menu service client configured")
	} else {
		restaurants, seed := menu.DefaultSeed()
		menus = menu.NewStaticProvider(restaurants, seed)
		logger.Info("Menu service URL not configured - serving seeded menus")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka publisher")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.WithField("brokers", cfg.KafkaBrokers).Info("Kafka publisher configured")
	} else {
		logger.Info("Kafka brokers not configured - lifecycle events disabled")
	}

	engine := pricing.NewEngine(menus, logger)
	store := orders.NewMemoryStore()
	service := orders.NewService(store, engine, publisher, logger, cfg.DraftTTL)

	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	handler := orders.NewHandler(service, engine, menus, logger)
	handler.SetWebSocketHub(wsHub)

	router := mux.NewRouter()
	handler.Register(router)
	router.HandleFunc("/ws", wsHub.HandleWebSocket)
	router.Use(loggingMiddleware(logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting ordering server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Info("Server stopped")
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("Request handled")
		})
	}
}
