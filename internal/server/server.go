// Package server hosts the local editor API: an HTTP surface over the
// scenario aggregate plus a websocket feed that mirrors every mutation
// to connected views. The core packages stay single-threaded; this
// layer owns the one mutex that serializes editing.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/Benkess/CrossSim/internal/logging"
	"github.com/Benkess/CrossSim/internal/observability"
)

// Config carries the server's startup options. Zero values fall back
// to local-development defaults.
type Config struct {
	Port         int
	AllowOrigins string
	Log          logging.Logger
	Metrics      *observability.Collector
}

// Server owns the fiber app, the editing session, and the websocket
// hub.
type Server struct {
	cfg     Config
	app     *fiber.App
	session *session
	hub     *hub
	log     logging.Logger
	metrics *observability.Collector
}

// New assembles the app and its routes. The server is ready to serve
// after New; Start binds the listener.
func New(cfg Config) (*Server, error) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "http://localhost:5173, http://localhost:3000"
	}
	if cfg.Log == nil {
		cfg.Log = logging.Noop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		var err error
		metrics, err = observability.NewCollector(nil)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	s := &Server{
		cfg:     cfg,
		session: newSession(),
		hub:     newHub(cfg.Log),
		log:     cfg.Log,
		metrics: metrics,
	}
	s.app = s.buildApp()
	return s, nil
}

func (s *Server) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "crosssim-editor"})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(s.attachRequestLogger)
	app.Use(s.observeRequests)

	app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)

	api.Get("/scenario", s.handleGetScenario)
	api.Get("/scenario/summary", s.handleScenarioSummary)
	api.Get("/scenario/validation", s.handleScenarioValidation)
	api.Post("/scenario/new", s.handleNewScenario)
	api.Post("/scenario/load", s.handleLoadScenario)
	api.Post("/scenario/save", s.handleSaveScenario)
	api.Put("/scenario/metadata", s.handleUpdateMetadata)

	api.Get("/agents", s.handleListAgents)
	api.Post("/agents", s.handleAddAgent)
	api.Get("/agents/:id", s.handleGetAgent)
	api.Put("/agents/:id", s.handleUpdateAgent)
	api.Delete("/agents/:id", s.handleRemoveAgent)

	api.Get("/robots", s.handleListRobots)
	api.Post("/robots", s.handleAddRobot)
	api.Get("/robots/:id", s.handleGetRobot)
	api.Put("/robots/:id", s.handleUpdateRobot)
	api.Delete("/robots/:id", s.handleRemoveRobot)
	api.Post("/robots/:id/estop", s.handleRobotEStop)
	api.Post("/robots/:id/goals", s.handleRobotAddGoal)

	api.Get("/objects", s.handleListObjects)
	api.Post("/objects", s.handleAddObject)
	api.Get("/objects/:id", s.handleGetObject)
	api.Put("/objects/:id", s.handleUpdateObject)
	api.Delete("/objects/:id", s.handleRemoveObject)

	api.Get("/goals", s.handleListGoals)
	api.Post("/goals", s.handleAddScenarioGoal)
	api.Delete("/goals/:id", s.handleRemoveScenarioGoal)

	api.Get("/environment", s.handleGetEnvironment)
	api.Post("/environment/grid", s.handleCreateGrid)
	api.Post("/environment/walls", s.handleAddWall)
	api.Delete("/environment/walls/:id", s.handleRemoveWall)
	api.Post("/environment/obstacles", s.handleAddObstacle)
	api.Delete("/environment/obstacles/:id", s.handleRemoveObstacle)
	api.Post("/environment/zones", s.handleAddZone)
	api.Delete("/environment/zones/:id", s.handleRemoveZone)
	api.Get("/environment/bounds", s.handleEnvironmentBounds)
	api.Get("/environment/free", s.handleEnvironmentFree)
	api.Post("/environment/export", s.handleExportMap)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.hub.handleConn))

	return app
}

// Start runs the hub and blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	go s.hub.run()
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info(context.Background(), "editor API listening",
		logging.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the listener and disconnects websocket clients.
func (s *Server) Shutdown() error {
	s.hub.close()
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process tests.
func (s *Server) App() *fiber.App { return s.app }

// Preload replaces the session with a scenario loaded from path before
// the server starts taking requests.
func (s *Server) Preload(path string) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if err := s.session.load(path); err != nil {
		return err
	}
	s.metrics.ScenarioLoads.Inc()
	s.syncEntityGauges()
	s.log.Info(context.Background(), "scenario preloaded",
		logging.String("path", path),
		logging.String("name", s.session.scenario.Name()))
	return nil
}

// attachRequestLogger stamps each request with a request_id and stores
// a logger annotated with it on the user context.
func (s *Server) attachRequestLogger(c *fiber.Ctx) error {
	ctx, reqLog := logging.WithRequestLogger(c.UserContext(), s.log)
	c.SetUserContext(logging.ContextWithLogger(ctx, reqLog))
	return c.Next()
}

// reqLog returns the request-scoped logger for handler error paths.
func (s *Server) reqLog(c *fiber.Ctx) logging.Logger {
	return logging.FromContext(c.UserContext(), s.log)
}

// observeRequests records one counter increment and one latency sample
// per handled request, labeled by the matched route pattern.
func (s *Server) observeRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	s.metrics.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
	return err
}

// syncEntityGauges pushes the scenario's collection sizes to the
// metrics gauges. Callers hold the session mutex.
func (s *Server) syncEntityGauges() {
	scn := s.session.scenario
	s.metrics.SetEntityCounts(len(scn.Agents), len(scn.Robots), len(scn.StaticObjects), len(scn.Goals))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}
