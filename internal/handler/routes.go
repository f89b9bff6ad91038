package handler

import (
	"prepmate/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth     *AuthHandler
	AI       *AIHandler
	Session  *SessionHandler
	Question *QuestionHandler
}

// SetupRoutes mounts the REST API. Every route except health, register and login
// requires a bearer token.
func SetupRoutes(app *fiber.App, h Handlers, tokens middleware.TokenValidator) {
	app.Get("/health", HealthCheck)

	api := app.Group("/api")
	protected := middleware.Protected(tokens)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/profile", protected, h.Auth.GetProfile)

	ai := api.Group("/ai", protected)
	ai.Post("/generate-questions", h.AI.GenerateQuestions)
	ai.Post("/generate-explanation", h.AI.GenerateExplanation)
	ai.Get("/usage", h.AI.GetUsage)

	sessions := api.Group("/sessions", protected)
	sessions.Post("/create", h.Session.CreateSession)
	sessions.Get("/my-sessions", h.Session.GetMySessions)
	sessions.Get("/:id", h.Session.GetSession)
	sessions.Delete("/:id", h.Session.DeleteSession)

	questions := api.Group("/questions", protected)
	questions.Post("/add", h.Question.AddQuestions)
	questions.Post("/:id/pin", h.Question.TogglePin)
	questions.Post("/:id/note", h.Question.UpdateNote)
}
