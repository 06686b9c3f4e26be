// Package api exposes the query service over HTTP
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hetracker/app"
	"hetracker/ports"
)

// Server is the HTTP front end of the query service
type Server struct {
	router   *gin.Engine
	queries  *app.QueryService
	registry ports.MetadataRegistry
	source   ports.DatasetSource
	http     *http.Server
}

// NewServer wires the routes. source may be nil, in which case the dataset
// listing only reports registered metadata.
func NewServer(queries *app.QueryService, registry ports.MetadataRegistry, source ports.DatasetSource) *Server {
	s := &Server{
		router:   gin.New(),
		queries:  queries,
		registry: registry,
		source:   source,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/query", s.handleQuery)
		api.POST("/trends", s.handleTrends)
		api.GET("/datasets", s.handleDatasets)
		api.GET("/metrics", s.handleMetrics)
		api.GET("/variables", s.handleVariables)
	}
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[API] listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[API] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
