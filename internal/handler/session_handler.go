package handler

import (
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/middleware"
	"prepmate/internal/service"
	"prepmate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles interview session requests
type SessionHandler struct {
	sessionService service.SessionService
	validator      *validation.Validator
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validator:      validation.NewValidator(),
	}
}

// CreateSession godoc
// @Summary Create a session
// @Description Creates a session for the caller together with its initial questions
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateSessionRequest true "Session"
// @Success 201 {object} dto.SessionEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /sessions/create [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateCreateSessionRequest(req); len(errs) > 0 {
		return errs
	}

	session := domain.NewSession(middleware.UserID(c), req.Role, req.Experience, req.TopicsToFocus, req.Description)
	created, err := h.sessionService.Create(c.UserContext(), session, dto.ToQuestionDrafts("", req.Questions))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SessionEnvelope{
		Success: true,
		Session: dto.NewSessionResponse(created),
	})
}

// GetMySessions godoc
// @Summary List the caller's sessions
// @Description Newest first; questions are ordered pinned first, then oldest first
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionListEnvelope
// @Failure 401 {object} dto.ErrorResponse
// @Router /sessions/my-sessions [get]
func (h *SessionHandler) GetMySessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListMine(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewSessionResponse(s))
	}
	return c.JSON(dto.SessionListEnvelope{Success: true, Sessions: out})
}

// GetSession godoc
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionEnvelope
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}

	session, err := h.sessionService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.SessionEnvelope{Success: true, Session: dto.NewSessionResponse(session)})
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Deletes the caller's session and all of its questions
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if errs := h.validator.ValidateID("id", id); len(errs) > 0 {
		return errs
	}

	if err := h.sessionService.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Session deleted successfully"})
}
