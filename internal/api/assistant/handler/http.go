package assistantHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	assistantService "ProjectLark/internal/api/assistant/service"
	"ProjectLark/internal/middleware"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	assistant := srv.Group("/assistant")

	assistant.Use(h.middleware.NewRateLimiter)

	// Pipeline entry
	assistant.Post("/command", h.ProcessCommand)

	// Speech synthesis proxy
	assistant.Post("/tts", h.Synthesize)

	// History and analytics
	assistant.Get("/history", h.GetHistory)
	assistant.Get("/analytics", h.GetAnalytics)

	// Advisory pipeline state for the UI
	assistant.Get("/state", h.GetState)

	// Matcher dry-run (admin endpoint)
	assistant.Post("/matcher/test", h.TestMatcher)
}
