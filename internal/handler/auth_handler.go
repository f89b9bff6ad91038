package handler

import (
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"
	"prepmate/internal/middleware"
	"prepmate/internal/service"
	"prepmate/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

// Register godoc
// @Summary Register a user
// @Description Creates an account and returns the profile with an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	user, token, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password, req.ProfileImageURL)
	if err != nil {
		return err
	}

	logger.Get().Info("User registered", zap.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(newAuthResponse(user, token))
}

// Login godoc
// @Summary Log in
// @Description Authenticates with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateLoginRequest(req); len(errs) > 0 {
		return errs
	}

	user, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(newAuthResponse(user, token))
}

// GetProfile godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.authService.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{
		Success:         true,
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	})
}

func newAuthResponse(user *domain.User, token string) dto.AuthResponse {
	return dto.AuthResponse{
		Success:         true,
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		Token:           token,
	}
}
