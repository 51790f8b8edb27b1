package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/recommend"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/taxonomy"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/cache"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

const serviceName = "go-placefinder"

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router http.Handler

	gateway    *places.Gateway
	wizard     *wizard.Service
	classifier *taxonomy.Classifier
	caches     *cache.Manager
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.caches = cache.NewManager(logger)
	s.gateway = places.NewGateway(cfg.Places, s.caches, logger)

	fetcher := places.NewFetcher(s.gateway, cfg.Places, logger)
	s.classifier = taxonomy.NewClassifier(taxonomy.CuisineTaxonomy)

	recommender, err := recommend.NewRecommender(ctx, cfg.Gemini, s.classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup recommender: %w", err)
	}

	store := wizard.NewSessionStore(cfg.Wizard.SessionTTL, logger)
	s.wizard = wizard.NewService(s.gateway, fetcher, recommender, store, cfg.Wizard, logger)

	return s, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Gateway returns the places gateway
func (s *Server) Gateway() *places.Gateway {
	return s.gateway
}

// Wizard returns the wizard service
func (s *Server) Wizard() *wizard.Service {
	return s.wizard
}

// Classifier returns the cuisine classifier
func (s *Server) Classifier() *taxonomy.Classifier {
	return s.classifier
}

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}

// Close closes all server resources
func (s *Server) Close() {
	if s.caches != nil {
		s.caches.ClearAll()
	}
}
