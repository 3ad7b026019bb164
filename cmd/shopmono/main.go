package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopmono/shopmono/internal/api/handlers"
	"github.com/shopmono/shopmono/internal/api/middleware"
	"github.com/shopmono/shopmono/internal/cache"
	"github.com/shopmono/shopmono/internal/config"
	"github.com/shopmono/shopmono/internal/health"
	"github.com/shopmono/shopmono/internal/metrics"
	repository "github.com/shopmono/shopmono/internal/repositories"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/shopmono/shopmono/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing setup
	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()

		if err := repos.Close(closeCtx); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	jwtKey := []byte(cfg.Security.JWTKey)
	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey, cfg.Security.TokenTTL)
	userHandler := handlers.NewUserHandler(userService)
	categoryService := service.NewCategoryService(repos.Category)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productService := service.NewProductService(repos.Product, repos.Category, productCache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.Counter)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.Authenticate(h)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
	}
	// Public catalog routes still pick up claims when a token is sent, so
	// admins can browse non-active products and categories.
	optional := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.OptionalAuthenticate(h)
	}

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", auth(userHandler.Profile()))
	routerMux.HandleFunc("PUT /api/v1/users/profile", auth(userHandler.UpdateProfile()))
	routerMux.HandleFunc("PUT /api/v1/users/password", auth(userHandler.ChangePassword()))

	routerMux.HandleFunc("GET /api/v1/categories", optional(categoryHandler.List()))
	routerMux.HandleFunc("GET /api/v1/categories/{id}", optional(categoryHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/categories", admin(categoryHandler.Create()))
	routerMux.HandleFunc("PUT /api/v1/categories/{id}", admin(categoryHandler.Update()))
	routerMux.HandleFunc("DELETE /api/v1/categories/{id}", admin(categoryHandler.Delete()))

	routerMux.HandleFunc("GET /api/v1/products", optional(productHandler.List()))
	routerMux.HandleFunc("GET /api/v1/products/featured", optional(productHandler.Featured()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", optional(productHandler.Get()))
	routerMux.HandleFunc("GET /api/v1/products/{id}/related", optional(productHandler.Related()))
	routerMux.HandleFunc("POST /api/v1/products", admin(productHandler.Create()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", admin(productHandler.Update()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", admin(productHandler.Delete()))

	routerMux.HandleFunc("GET /api/v1/carts", auth(cartHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/carts/items", auth(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", auth(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items", auth(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/carts", auth(cartHandler.Clear()))

	routerMux.HandleFunc("POST /api/v1/orders", auth(orderHandler.Create()))
	routerMux.HandleFunc("GET /api/v1/orders", auth(orderHandler.List()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", auth(orderHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", auth(orderHandler.Cancel()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", admin(orderHandler.UpdateStatus()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/payment", admin(orderHandler.UpdatePaymentStatus()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
