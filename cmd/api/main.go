//	@title			Picstash Image API
//	@version		1.0
//	@description	Image upload and metadata service backed by an S3-compatible object store and Postgres.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Optional JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/picstash/image-service/internal/config"
	"github.com/picstash/image-service/internal/db"
	"github.com/picstash/image-service/internal/image"
	"github.com/picstash/image-service/internal/logger"
	appMiddleware "github.com/picstash/image-service/internal/middleware"
	"github.com/picstash/image-service/internal/storage"

	_ "github.com/picstash/image-service/docs/swagger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	zlog.Info("connected to database")

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}
	zlog.Info("database migrations applied")

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
		zlog,
	)
	if err != nil {
		zlog.Fatal("object storage init failed", zap.Error(err))
	}

	// Wire dependencies: stores → repository → service → handler
	meta := image.NewPostgresStore(pool)
	repo := image.NewRepository(store, meta, zlog)
	svc := image.NewService(repo)
	handler := image.NewHandler(svc, zlog, cfg.MaxUploadBytes)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(zlog))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Image API
	r.Route("/image", func(r chi.Router) {
		r.Use(appMiddleware.Identity(cfg.JWTSecret))
		r.Use(httprate.Limit(
			60,
			1*time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		))
		r.Post("/upload/", handler.UploadImage)
		r.Put("/update/", handler.UpdateImage)
		r.Get("/{image_id}", handler.GetImage)
		r.Delete("/{image_id}", handler.DeleteImage)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server stopped")
}
