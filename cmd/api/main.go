package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"newsletter-sendy-layer/internal/application"
	"newsletter-sendy-layer/internal/infrastructure/api"
	"newsletter-sendy-layer/internal/infrastructure/cache"
	"newsletter-sendy-layer/internal/infrastructure/events"
	"newsletter-sendy-layer/internal/infrastructure/metrics"
	"newsletter-sendy-layer/internal/infrastructure/repository"
	"newsletter-sendy-layer/internal/infrastructure/sendy"
	"newsletter-sendy-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsCacheTTL = 5 * time.Minute

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found")
	}

	mongoURI := envOr("MONGODB_URI", "mongodb://localhost:27017")
	mongoDatabase := envOr("MONGODB_DATABASE", "newsletter")
	redisAddr := envOr("REDIS_ADDR", "localhost:6379")

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(mongoDatabase)

	// Connect to Redis (settings are read on every subscription)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Repositories
	settingsRepo := cache.NewCachedSettingsRepository(
		repository.NewMongoSettingsRepository(db),
		redisClient,
		settingsCacheTTL,
		logger,
	)
	newsletterRepo := repository.NewMongoNewsletterRepository(db)

	// Integration registry: registration happens here, once, before any
	// request is served.
	integrationRegistry := application.NewIntegrationRegistry(logger)
	for _, integration := range application.DefaultIntegrations() {
		integrationRegistry.Register(integration)
	}

	// Subscriber event fan-out: always the in-process pub/sub, plus the
	// broker when one is configured.
	subscriberPubSub := events.NewSubscriberPubSub(logger)
	publishers := []ports.EventPublisher{subscriberPubSub}
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(events.DefaultRabbitMQConfig(amqpURL), logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
	}
	eventPublisher := events.NewFanout(publishers...)

	// Audit log for subscriber events
	auditChannel := subscriberPubSub.Subscribe(context.Background(), nil)
	go func() {
		for event := range auditChannel.Events {
			logger.Info().
				Str("context", event.Context).
				Str("list_id", event.ListID).
				Time("occurred_at", event.OccurredAt).
				Msg("Subscriber added")
		}
	}()

	// Sendy client
	sendyClient := sendy.NewClientWithOptions(
		&http.Client{Timeout: sendy.DefaultTimeout},
		m,
		logger,
	)

	// Application services
	settingsService := application.NewSettingsService(settingsRepo, integrationRegistry, logger)
	subscriptionService := application.NewSubscriptionService(
		integrationRegistry,
		settingsService,
		sendyClient,
		eventPublisher,
		logger,
	)
	renderer := application.NewEmailRenderer(
		application.PassthroughContentRenderer{},
		renderOptionsFromEnv(),
	)
	campaignService := application.NewCampaignService(
		newsletterRepo,
		renderer,
		settingsService,
		sendyClient,
		logger,
	)

	handler := api.NewHandler(
		subscriptionService,
		campaignService,
		settingsService,
		integrationRegistry,
		newsletterRepo,
		m,
		logger,
	)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	r.Route("/api/v1", handler.Routes)

	port := envOr("PORT", "8080")
	logger.Info().Str("port", port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func renderOptionsFromEnv() application.RenderOptions {
	opts := application.DefaultRenderOptions()
	if v := os.Getenv("SITE_NAME"); v != "" {
		opts.SiteName = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		opts.SiteURL = v
	}
	if v := os.Getenv("ARCHIVE_URL"); v != "" {
		opts.ArchiveURL = v
	}
	if v := os.Getenv("LOGO_URL"); v != "" {
		opts.LogoURL = v
	}
	return opts
}
