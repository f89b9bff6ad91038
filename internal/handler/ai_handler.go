package handler

import (
	"strconv"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"
	"prepmate/internal/service"
	"prepmate/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AIHandler exposes question generation, concept explanations and quota usage
type AIHandler struct {
	aiService service.AIService
	validator *validation.Validator
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		validator: validation.NewValidator(),
	}
}

// GenerateQuestions godoc
// @Summary Generate interview questions
// @Description Generates questions with the configured model. When the model is unavailable the response carries template questions and isFallback=true.
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuestionsRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /ai/generate-questions [post]
func (h *AIHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	count, errs := h.validator.ValidateGenerateQuestionsRequest(req)
	if len(errs) > 0 {
		return errs
	}

	result, err := h.aiService.GenerateQuestions(c.UserContext(), domain.QuestionRequest{
		Role:       req.Role,
		Experience: req.Experience,
		Topics:     req.TopicsToFocus,
		Count:      count,
	})
	if err != nil {
		return err
	}

	if result.IsFallback {
		logger.Get().Info("Served fallback questions", zap.String("role", req.Role), zap.Int("count", len(result.Questions)))
	}

	return c.JSON(dto.GenerateQuestionsResponse{
		Success:    true,
		Questions:  result.Questions,
		IsFallback: result.IsFallback,
	})
}

// GenerateExplanation godoc
// @Summary Explain a concept
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateExplanationRequest true "Concept to explain"
// @Success 200 {object} dto.GenerateExplanationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /ai/generate-explanation [post]
func (h *AIHandler) GenerateExplanation(c *fiber.Ctx) error {
	var req dto.GenerateExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateGenerateExplanationRequest(req); len(errs) > 0 {
		return errs
	}

	exp, err := h.aiService.GenerateExplanation(c.UserContext(), domain.ExplanationRequest{
		Concept:    req.Concept,
		Difficulty: req.Difficulty,
		Language:   req.Language,
		Context:    req.Context,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.GenerateExplanationResponse{
		Success: true,
		Data: dto.ExplanationData{
			Concept:     exp.Concept,
			Difficulty:  exp.Difficulty,
			Language:    exp.Language,
			Explanation: exp.Text,
			Metadata: dto.ExplanationMetadata{
				Model:        exp.Model,
				ResponseTime: strconv.FormatInt(exp.ResponseTime, 10) + "ms",
				GeneratedAt:  exp.GeneratedAt.UTC().Format(time.RFC3339),
				Cached:       exp.Cached,
			},
		},
	})
}

// GetUsage godoc
// @Summary AI usage for today
// @Tags ai
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UsageResponse
// @Router /ai/usage [get]
func (h *AIHandler) GetUsage(c *fiber.Ctx) error {
	snap := h.aiService.Usage(c.UserContext())
	return c.JSON(dto.UsageResponse{
		Success: true,
		Data: dto.UsageData{
			Date:               snap.Date,
			DailyRequests:      snap.DailyRequests,
			RateLimited:        snap.RateLimited,
			DailyQuotaExceeded: snap.DailyQuotaExceeded,
		},
	})
}
