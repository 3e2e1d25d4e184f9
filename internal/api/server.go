package api

import (
	"fmt"
	"net/http"
	"time"

	"pricefeed/internal/api/handlers"
	"pricefeed/internal/api/middleware"
	"pricefeed/internal/config"
	"pricefeed/internal/database"
	"pricefeed/internal/etl"
	"pricefeed/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, runner *etl.Runner) *Server {
	// Set Gin mode
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB)
	priceHandler := handlers.NewPriceHandler(db.DB)
	runHandler := handlers.NewRunHandler(db.DB)
	syncHandler := handlers.NewSyncHandler(runner, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", productHandler.List)
		v1.GET("/prices", priceHandler.List)

		runs := v1.Group("/runs")
		{
			runs.GET("", runHandler.List)
			runs.GET("/:id", runHandler.Get)
		}

		v1.POST("/sync", syncHandler.Trigger)
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}
