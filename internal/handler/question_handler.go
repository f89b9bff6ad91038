package handler

import (
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/middleware"
	"prepmate/internal/service"
	"prepmate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler handles question requests within sessions
type QuestionHandler struct {
	questionService service.QuestionService
	validator       *validation.Validator
}

func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		validator:       validation.NewValidator(),
	}
}

// AddQuestions godoc
// @Summary Add questions to a session
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.AddQuestionsRequest true "Questions"
// @Success 201 {object} dto.QuestionListEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/add [post]
func (h *QuestionHandler) AddQuestions(c *fiber.Ctx) error {
	var req dto.AddQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAddQuestionsRequest(req); len(errs) > 0 {
		return errs
	}

	added, err := h.questionService.AddToSession(c.UserContext(), middleware.UserID(c), req.SessionID,
		dto.ToQuestionDrafts(req.SessionID, req.Questions))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.QuestionListEnvelope{
		Success:   true,
		Questions: dto.NewQuestionResponses(added),
	})
}

// TogglePin godoc
// @Summary Toggle the pinned flag of a question
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/pin [post]
func (h *QuestionHandler) TogglePin(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}

	q, err := h.questionService.TogglePin(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionEnvelope{Success: true, Question: dto.NewQuestionResponse(q)})
}

// UpdateNote godoc
// @Summary Update the note on a question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param request body dto.UpdateNoteRequest true "Note"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/note [post]
func (h *QuestionHandler) UpdateNote(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}

	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateNoteRequest(req); len(errs) > 0 {
		return errs
	}

	q, err := h.questionService.UpdateNote(c.UserContext(), middleware.UserID(c), id, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionEnvelope{Success: true, Question: dto.NewQuestionResponse(q)})
}
