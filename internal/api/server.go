// Package api exposes the predictor over HTTP with gofiber.
package api

import (
	"context"
	"time"

	"placement-advisor/internal/advisory"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/predictor"

	"github.com/gofiber/fiber/v3"
)

// Options tunes the HTTP server. Zero values fall back to fiber defaults.
type Options struct {
	AppName        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	BodyLimit      int
	// Catalog serves the course and role routes. Nil uses advisory.DefaultCatalog.
	Catalog *advisory.Catalog
}

type Server struct {
	app            *fiber.App
	svc            *predictor.Service
	catalog        *advisory.Catalog
	logger         logger.Logger
	requestTimeout time.Duration
	now            func() time.Time
}

func NewServer(svc *predictor.Service, log logger.Logger, opts Options) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      opts.AppName,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			BodyLimit:    opts.BodyLimit,
		}),
		svc:            svc,
		logger:         log.WithFields(map[string]interface{}{"component": "api"}),
		catalog:        opts.Catalog,
		requestTimeout: opts.RequestTimeout,
		now:            time.Now,
	}
	if s.catalog == nil {
		c, err := advisory.DefaultCatalog()
		if err != nil {
			s.logger.Error("Course and role catalog unavailable", map[string]interface{}{"error": err.Error()})
		}
		s.catalog = c
	}

	s.app.Use(requestLogMiddleware(s.logger))
	s.app.Use(errorMiddleware(s.logger))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)

	v1 := s.app.Group("/api/v1")
	v1.Post("/predict", s.predict)
	v1.Get("/model", s.model)

	v1.Get("/courses", s.courses)
	v1.Get("/courses/by-category", s.coursesByCategory)
	v1.Get("/roles", s.roles)
	v1.Get("/roles/:id", s.role)
	v1.Post("/roles/:id/fit", s.roleFit)
}

// App returns the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
