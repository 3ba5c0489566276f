// Package server exposes the transaction engine over HTTP. Routes and
// payload shapes follow the frontend contract: compact transactions with
// foreign-key ids, metadata arrays sent once per response.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mihir-gonsalves/CashCanvas/internal/config"
	"github.com/mihir-gonsalves/CashCanvas/internal/store"
)

// Server handles HTTP requests against a transaction store.
type Server struct {
	cfg    *config.Config
	logger *log.Logger
	store  *store.Store
}

// New creates a Server.
func New(cfg *config.Config, logger *log.Logger, st *store.Store) *Server {
	return &Server{cfg: cfg, logger: logger, store: st}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	txns := router.Group("/transactions")
	{
		txns.POST("/", s.handleCreate)
		txns.GET("/", s.handleList)
		txns.PUT("/:id", s.handleUpdate)
		txns.DELETE("/:id", s.handleDelete)

		txns.GET("/filter", s.handleFilter)
		txns.GET("/analytics", s.handleAnalytics)

		txns.GET("/cost_centers", s.handleCostCenters)
		txns.GET("/spend_categories", s.handleSpendCategories)
		txns.GET("/accounts", s.handleAccounts)

		txns.POST("/upload-csv", s.handleUpload)
		txns.GET("/export", s.handleExport)
	}

	return router
}

// Start runs the HTTP server on the configured listen address.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.cfg.Server.Listen)
	return http.ListenAndServe(s.cfg.Server.Listen, s.Router())
}

// requestLogger logs every request with method, path, status and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}

// persist writes the store back to the configured data file. Best-effort: a
// failed write is logged but never undoes the committed mutation.
func (s *Server) persist() {
	path := s.cfg.Data.File
	if path == "" {
		return
	}
	if err := writeDataFile(path, s.store); err != nil {
		s.logger.Error("persisting data file", "path", path, "err", err)
	}
}

func writeDataFile(path string, st *store.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return exportStore(f, st)
}
