package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"later/internal/app"
	"later/internal/auth"
	"later/internal/config"
	"later/internal/domain/services"
	"later/internal/handler"
	"later/internal/handler/sse"
	"later/internal/middleware"
	"later/internal/notify"
	authService "later/internal/service/auth"
	contentService "later/internal/service/content"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
		"max_node_levels", cfg.MaxNodeLevels,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	// Committed changes go to in-process SSE subscribers, and to Redis when
	// other server processes need to hear about them
	hub := notify.NewHub(logger)
	notifier := notify.Multi{hub}
	if cfg.RedisURL != "" {
		redisClient, err := notify.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		notifier = append(notifier, notify.NewRedisPublisher(redisClient, cfg.TablePrefix, logger))
		logger.Info("redis publisher enabled", "channel", notify.Channel(cfg.TablePrefix))
	}

	svc := contentService.NewServices(storage.Repos, services.ChangeNotifier(notifier), cfg.MaxNodeLevels, logger)
	authz := authService.NewOwnerBasedAuthorizer(
		storage.Repos.Workspaces,
		storage.Repos.Containers,
		storage.Repos.Notes,
		storage.Repos.Nodes,
	)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Workspaces: handler.NewWorkspaceHandler(svc.Workspaces, svc.Content, svc.Reorder, authz, logger),
		Containers: handler.NewContainerHandler(svc.Content, svc.Nodes, svc.Tree, svc.Reorder, authz, logger),
		Notes:      handler.NewNoteHandler(svc.Content, authz),
		Nodes:      handler.NewNodeHandler(svc.Nodes, svc.Tree, svc.Reorder, authz, logger),
		Search:     handler.NewSearchHandler(svc.Search, authz),
		Events:     handler.NewEventsHandler(hub, authz, sse.DefaultConfig(), logger),
	})

	// Build middleware chain
	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	var h http.Handler = mux

	if cfg.AuthBypassAllowed() {
		logger.Warn("AUTH DISABLED: every request runs as the dev user (NEVER use in production!)",
			"user_id", cfg.DevUserID,
		)
		h = middleware.DevAuthMiddleware(cfg.DevUserID)(h)
	} else {
		jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	}

	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
