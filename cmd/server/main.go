package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/BitOnUranus/base64/internal/auth"
	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/handler"
	"github.com/BitOnUranus/base64/internal/middleware"
	"github.com/BitOnUranus/base64/internal/repository"
	"github.com/BitOnUranus/base64/internal/service/editor"
	"github.com/BitOnUranus/base64/internal/service/editor/converter"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Content store
	store, closeStore, err := repository.OpenContentStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}
	defer closeStore()

	// Snippet catalog
	catalog := editor.DefaultCatalog()
	if cfg.SnippetsFile != "" {
		catalog, err = editor.LoadCatalogFile(cfg.SnippetsFile)
		if err != nil {
			log.Fatalf("Failed to load snippet catalog: %v", err)
		}
	}
	logger.Info("snippet catalog loaded", "snippets", catalog.Len(), "file", cfg.SnippetsFile)

	// Upload converters
	converters, err := converter.NewConverterRegistry(converter.Options{
		HTMLPolicy:     cfg.HTMLPolicy,
		RenderMarkdown: cfg.MarkdownMode == config.MarkdownHTML,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to setup converters: %v", err)
	}
	logger.Info("converters registered",
		"types", converters.SupportedTypes(),
		"extensions", converters.SupportedExtensions(),
	)

	// Sessions and handlers
	sessions := editor.NewSessionRegistry(store, converters, catalog, cfg.DefaultSlot, cfg.MaxSessionsPerOwner, logger)
	sessionHandler := handler.NewSessionHandler(sessions, cfg.MaxUploadBytes, logger)
	snippetHandler := handler.NewSnippetHandler(catalog)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessionHandler, snippetHandler)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	if cfg.AuthJWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.Auth(jwtVerifier, logger, "/health")(h)
	} else {
		logger.Warn("AUTH_JWKS_URL not set: all requests share the anonymous owner")
		h = middleware.StaticUser(editor.AnonymousOwner)(h)
	}
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second, // Large uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down", "active_sessions", sessions.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
