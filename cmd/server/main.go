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

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/fitify-backend/internal/config"
	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/events"
	"github.com/AnshRaj112/fitify-backend/internal/handlers"
	"github.com/AnshRaj112/fitify-backend/internal/middleware"
	"github.com/AnshRaj112/fitify-backend/internal/routes"
	"github.com/AnshRaj112/fitify-backend/internal/services"
	"github.com/AnshRaj112/fitify-backend/pkg/clientip"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	clientip.TrustForwardedFor = cfg.TrustProxy

	// Connect to PostgreSQL (creates tables on first start)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (coach history)
	log.Printf("Connecting to MongoDB at %s...", maskURI(cfg.MongoURI))
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := services.EnsureCoachIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB coach indexes: %v", err)
	} else {
		log.Println("✅ MongoDB coach indexes ensured")
	}

	// Domain events
	if cfg.RabbitMQAddr != "" {
		publisher := events.NewRabbitMQPublisher(cfg.EventsQueue, cfg.RabbitMQAddr)
		events.SetPublisher(publisher)
		defer publisher.Close()
		log.Printf("✅ Publishing events to queue %q", cfg.EventsQueue)
	} else {
		log.Println("Warning: RABBITMQ_ADDR not set. Domain events are disabled")
	}

	// Coach
	handlers.InitCoach(cfg)
	if cfg.CoachConfigured() {
		log.Printf("✅ Coach enabled (model %s)", cfg.GeminiModel)
	} else {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. The coach will reply with a configuration notice")
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Avatar uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Avatar uploads will not be available")
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → AuthRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check, per-IP + auth rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}
	r.Use(middleware.CoachRateLimit)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Fitify backend running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Graceful shutdown failed: %v", err)
	}
}

// maskURI hides the password in a connection string for logging.
func maskURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return uri
	}
	return scheme + "://" + user + ":***@" + host
}
