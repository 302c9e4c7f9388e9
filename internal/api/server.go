package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"perch/internal/cache"
	"perch/internal/config"
	"perch/internal/database"
	"perch/internal/handlers"
	"perch/internal/logger"
	"perch/internal/messaging"
	"perch/internal/middleware"
	"perch/internal/repository"
	"perch/internal/service"
	"perch/internal/timezone"
)

// Server is the HTTP API server with all its backing connections.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	cache    *cache.Client
	nats     *messaging.NATSClient
	services *service.Services
	repos    *repository.Repositories
	tz       *timezone.Normalizer
}

// NewServer connects to the database, runs migrations and wires the service
// stack. Cache and NATS are optional: the server degrades to uncached,
// event-less operation when they are unreachable.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	tz, err := timezone.New(cfg.TimeZone)
	if err != nil {
		logger.Fatal("Failed to load time zone", "error", err, "zone", cfg.TimeZone)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Cache unavailable, running without it", "error", err, "addr", cfg.Cache.Addr)
		cacheClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, events disabled", "error", err, "url", cfg.NATS.URL)
		natsClient = nil
	}

	repos := repository.NewRepositories(db)

	// Interface values must stay nil when the backing client is missing, so
	// the services' nil guards work.
	var events service.EventPublisher
	if natsClient != nil {
		events = natsClient
	}
	var invalidator service.CacheInvalidator
	if cacheClient != nil {
		invalidator = cacheClient
	}

	services := service.NewServices(repos.Seats, repos.Bookings, tz, events, invalidator)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		cache:    cacheClient,
		nats:     natsClient,
		services: services,
		repos:    repos,
		tz:       tz,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services.Seats, s.services.Bookings, s.cache, s.tz)

	api := s.router.Group("/api")
	{
		seats := api.Group("/seats")
		{
			seats.GET("", h.ListSeats)
			seats.POST("", h.RegenerateLayout)
			seats.PUT("/:id", h.UpdateSeatLabel)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", h.ListBookings)
			bookings.POST("", h.CreateBooking)
			bookings.PUT("/:id", h.UpdateBooking)
			bookings.DELETE("/:id", h.DeleteBooking)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "perch-api",
		"timezone": s.tz.Location().String(),
		"database": dbHealth,
		"cache":    s.cache != nil,
		"nats":     s.nats != nil,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all backing connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing cache connection", "error", err)
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
