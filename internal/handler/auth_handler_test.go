package handler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	svcs := newTestServices()
	svcs.auth.RegisterFunc = func(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error) {
		assert.Equal(t, "Ada", name)
		assert.Equal(t, "ada@example.com", email)
		assert.Equal(t, "secret1", password)
		return &domain.User{ID: "u1", Name: name, Email: email, ProfileImageURL: profileImageURL}, "jwt-token", nil
	}
	app := setupTestApp(svcs)

	resp, raw := doRequest(t, app, "POST", "/api/auth/register", dto.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", ProfileImageURL: "https://img/ada.png",
	}, "")

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "u1", body["_id"])
	assert.Equal(t, "jwt-token", body["token"])
	assert.Equal(t, "https://img/ada.png", body["profileImageUrl"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		svcs := newTestServices()
		svcs.auth.RegisterFunc = func(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error) {
			return nil, "", domain.NewError(domain.CodeUserExists, "User already exists", nil)
		}
		resp, raw := doRequest(t, setupTestApp(svcs), "POST", "/api/auth/register",
			dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}, "")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "USER_EXISTS", decodeError(t, raw).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, raw := doRequest(t, setupTestApp(newTestServices()), "POST", "/api/auth/register", "{not json", "")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, raw).Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	svcs := newTestServices()
	svcs.auth.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, string, error) {
		if password != "secret1" {
			return nil, "", domain.NewError(domain.CodeInvalidCredentials, "Invalid email or password", nil)
		}
		return &domain.User{ID: "u1", Name: "Ada", Email: email}, "jwt-token", nil
	}
	app := setupTestApp(svcs)

	resp, raw := doRequest(t, app, "POST", "/api/auth/login", dto.LoginRequest{Email: "ada@example.com", Password: "secret1"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ok dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &ok))
	assert.Equal(t, "jwt-token", ok.Token)

	resp, raw = doRequest(t, app, "POST", "/api/auth/login", dto.LoginRequest{Email: "ada@example.com", Password: "wrong"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, raw).Code)

	resp, raw = doRequest(t, app, "POST", "/api/auth/login", dto.LoginRequest{Email: "ada@example.com"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, raw).Code)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	svcs := newTestServices()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svcs.auth.ProfileFunc = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID != "u1" {
			return nil, domain.NewError(domain.CodeUserNotFound, "User not found", nil)
		}
		return &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "$2a$10$hash", CreatedAt: created, UpdatedAt: created}, nil
	}
	app := setupTestApp(svcs)

	resp, raw := doRequest(t, app, "GET", "/api/auth/profile", nil, "token-u1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "$2a$10$hash")
	var profile dto.ProfileResponse
	require.NoError(t, json.Unmarshal(raw, &profile))
	assert.Equal(t, "Ada", profile.Name)
	assert.True(t, profile.CreatedAt.Equal(created))

	resp, raw = doRequest(t, app, "GET", "/api/auth/profile", nil, "token-ghost")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", decodeError(t, raw).Code)

	resp, _ = doRequest(t, app, "GET", "/api/auth/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	resp, raw := doRequest(t, setupTestApp(newTestServices()), "GET", "/health", nil, "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ok", body.Status)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}
