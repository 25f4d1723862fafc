package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bazarghat/backend/internal/auth"
	"github.com/bazarghat/backend/internal/config"
	"github.com/bazarghat/backend/internal/es"
	"github.com/bazarghat/backend/internal/handlers"
	"github.com/bazarghat/backend/internal/jwtmiddleware"
	"github.com/bazarghat/backend/internal/logging"
	"github.com/bazarghat/backend/internal/mail"
	"github.com/bazarghat/backend/internal/mykafka"
	httpserver "github.com/bazarghat/backend/internal/transport/http"
)

const productIndex = "product"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	configuration.MustValidate()

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	prod := mykafka.NewProducer(configuration.KAFKA_BROKERS)

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	config.MustNonEmptyBytes(jwtSecret, "JWT_SECRET")

	authService := auth.NewService(db, jwtSecret, configuration.AccessTTL)
	mailSender := mail.NewSMTPSender(
		configuration.MAIL_HOST,
		configuration.MAIL_PORT,
		configuration.MAIL_SENDER,
		configuration.MAIL_PASSWORD,
		configuration.PublicURL,
	)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLogger := logger.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			ctx := logging.IntoContext(c.Request().Context(), reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, Auth: authService, Mail: mailSender, Producer: prod},
		VerifyHandler:   &handlers.VerifyHandler{Auth: authService, Producer: prod},
		BusinessHandler: &handlers.BusinessHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient, Index: productIndex},
		UploadHandler:   &handlers.UploadHandler{DB: db, StaticDir: configuration.StaticDir},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: productIndex},
		AuthMW:          jwtmiddleware.New(authService),
		StaticDir:       configuration.StaticDir,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
