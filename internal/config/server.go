package config

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"ProjectLark/database/postgres"
	assistantHandler "ProjectLark/internal/api/assistant/handler"
	assistantRepository "ProjectLark/internal/api/assistant/repository"
	assistantService "ProjectLark/internal/api/assistant/service"
	"ProjectLark/internal/entity"
	"ProjectLark/internal/middleware"
	"ProjectLark/pkg/analytics"
	"ProjectLark/pkg/backend"
	"ProjectLark/pkg/connectivity"
	"ProjectLark/pkg/contextstore"
	"ProjectLark/pkg/corrector"
	"ProjectLark/pkg/matcher"
	"ProjectLark/pkg/respcache"
	"ProjectLark/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	contextStore contextstore.IContextStore
	backend      backend.IBackend
	recorder     *analytics.Recorder
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithContextStore(store contextstore.IContextStore) ServerOption {
	return func(s *Server) error {
		s.contextStore = store
		return nil
	}
}

func WithBackendClient(client backend.IBackend) ServerOption {
	return func(s *Server) error {
		s.backend = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Assistant Domain
	assistantRepo := assistantRepository.New(s.db, s.log)

	s.recorder = analytics.New(func(ctx context.Context, rec entity.CommandRecord) error {
		repo, err := assistantRepo.NewClient(false)
		if err != nil {
			return err
		}
		return repo.Commands.CreateCommandRecord(ctx, rec)
	}, s.log)

	monitor := connectivity.NewMonitor(s.backend, s.log)
	cache := respcache.New(s.log)

	assistantServices := assistantService.NewAssistantService(
		s.log,
		assistantRepo,
		matcher.NewOffline(),
		matcher.New(),
		corrector.New(),
		s.backend,
		monitor,
		cache,
		s.contextStore,
		s.recorder,
		s.utils,
	)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, assistantHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		return err
	}

	return nil
}

func (s *Server) Shutdown() {
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		payload := fiber.Map{
			"message": "Server is Healthy!",
		}

		if s.backend != nil {
			if info, err := s.backend.GetConfig(ctx.Context()); err == nil {
				payload["backend"] = fiber.Map{
					"openai_configured": info.OpenAIConfigured,
				}
			}
		}

		return ctx.JSON(payload)
	})
}
