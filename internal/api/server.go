package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bilet/internal/cache"
	"bilet/internal/config"
	"bilet/internal/database"
	"bilet/internal/handlers"
	"bilet/internal/logger"
	"bilet/internal/mailer"
	"bilet/internal/messaging"
	"bilet/internal/metrics"
	"bilet/internal/middleware"
	"bilet/internal/repository"
	"bilet/internal/search"
	"bilet/internal/service"
)

// Server wires the HTTP API together: database, optional collaborators,
// repositories, services, handlers and routes.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.Client
	services *service.Services
}

// NewServer builds the server. The database is required; redis,
// elasticsearch, NATS and SMTP are optional and the server starts without
// them, logging what was skipped.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	var redisClient *cache.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewClient(cfg.Redis)
		if err != nil {
			logger.Get().Warn("Redis unavailable, caching and token revocation disabled", "error", err)
			redisClient = nil
		}
	}

	var natsClient *messaging.NATSClient
	var publisher service.Publisher
	if cfg.NATS.URL != "" {
		natsClient, err = messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			logger.Get().Warn("NATS unavailable, domain events disabled", "error", err)
		} else {
			publisher = natsClient
		}
	}

	var index service.EventIndex
	if cfg.Elasticsearch.URL != "" {
		esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, full-text search disabled", "error", err)
		} else {
			index = esClient
		}
	}

	var notifier service.Notifier
	if cfg.SMTP.Host != "" {
		smtp, err := mailer.New(cfg.SMTP)
		if err != nil {
			logger.Get().Warn("SMTP unavailable, email notifications disabled", "error", err)
		} else {
			notifier = smtp
		}
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Stores{
		Users:    repos.Users,
		Events:   repos.Events,
		Bookings: repos.Bookings,
		Payments: repos.Payments,
	}, publisher, notifier, index)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.GinMiddleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.New(s.services, s.redis, s.config.JWT)

	api := s.router.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/token/refresh", h.Refresh)
		api.POST("/logout", h.Logout)

		api.GET("/events", h.ListEvents)

		authed := api.Group("")
		authed.Use(middleware.Auth(s.config.JWT))
		{
			authed.POST("/events", h.CreateEvent)
			authed.POST("/events/:id/cancel", h.CancelEvent)

			authed.POST("/bookings", h.CreateBooking)
			authed.GET("/bookings", h.ListBookings)
			authed.POST("/bookings/:id/cancel", h.CancelBooking)

			authed.POST("/payments", h.MakePayment)
			authed.POST("/payments/revert", h.RevertPayment)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   check.Status,
		"service":  "bilet-api",
		"database": check,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Get().Error("Error closing redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
