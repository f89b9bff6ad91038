package handler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler_CreateSession(t *testing.T) {
	svcs := newTestServices()
	svcs.sessions.CreateFunc = func(ctx context.Context, session *domain.Session, questions []*domain.Question) (*domain.Session, error) {
		assert.Equal(t, "u1", session.UserID)
		assert.Equal(t, "Frontend Engineer", session.Role)
		require.Len(t, questions, 2)
		assert.Equal(t, domain.DefaultQuestionText, questions[1].Question)

		session.ID = "s1"
		for _, q := range questions {
			q.SessionID = session.ID
		}
		session.Questions = questions
		return session, nil
	}

	resp, raw := doRequest(t, setupTestApp(svcs), "POST", "/api/sessions/create", dto.CreateSessionRequest{
		Role:          "Frontend Engineer",
		Experience:    "4 years",
		TopicsToFocus: "React",
		Questions: []dto.QuestionInput{
			{Question: "What is reconciliation?", Answer: "Diffing"},
			{Question: ""},
		},
	}, "token-u1")

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var body dto.SessionEnvelope
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "s1", body.Session.ID)
	assert.Equal(t, "u1", body.Session.UserID)
	require.Len(t, body.Session.Questions, 2)
	assert.Equal(t, "s1", body.Session.Questions[0].SessionID)
}

func TestSessionHandler_CreateSession_Invalid(t *testing.T) {
	resp, raw := doRequest(t, setupTestApp(newTestServices()), "POST", "/api/sessions/create", `{"experience":"1y"}`, "token-u1")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, raw).Code)
}

func TestSessionHandler_GetMySessions(t *testing.T) {
	svcs := newTestServices()
	now := time.Now()
	svcs.sessions.ListMineFunc = func(ctx context.Context, userID string) ([]*domain.Session, error) {
		assert.Equal(t, "u1", userID)
		return []*domain.Session{
			{ID: "s2", UserID: userID, Role: "SRE", CreatedAt: now, Questions: []*domain.Question{{ID: "q1", SessionID: "s2", IsPinned: true}}},
			{ID: "s1", UserID: userID, Role: "QA", CreatedAt: now.Add(-time.Hour), Questions: []*domain.Question{}},
		}, nil
	}

	resp, raw := doRequest(t, setupTestApp(svcs), "GET", "/api/sessions/my-sessions", nil, "token-u1")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.SessionListEnvelope
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Sessions, 2)
	assert.Equal(t, "s2", body.Sessions[0].ID)
	assert.True(t, body.Sessions[0].Questions[0].IsPinned)
	assert.NotNil(t, body.Sessions[1].Questions)
}

func TestSessionHandler_GetMySessions_Empty(t *testing.T) {
	svcs := newTestServices()
	svcs.sessions.ListMineFunc = func(ctx context.Context, userID string) ([]*domain.Session, error) {
		return nil, nil
	}

	_, raw := doRequest(t, setupTestApp(svcs), "GET", "/api/sessions/my-sessions", nil, "token-u1")
	assert.JSONEq(t, `{"success":true,"sessions":[]}`, string(raw))
}

func TestSessionHandler_GetSession(t *testing.T) {
	id := util.NewULID()
	svcs := newTestServices()
	svcs.sessions.GetFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		if sessionID != id {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return &domain.Session{ID: id, UserID: "u1", Questions: []*domain.Question{}}, nil
	}
	app := setupTestApp(svcs)

	resp, _ := doRequest(t, app, "GET", "/api/sessions/"+id, nil, "token-u1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, raw := doRequest(t, app, "GET", "/api/sessions/"+util.NewULID(), nil, "token-u1")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, raw).Code)

	resp, raw = doRequest(t, app, "GET", "/api/sessions/not-an-id", nil, "token-u1")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, raw).Code)
}

func TestSessionHandler_DeleteSession(t *testing.T) {
	id := util.NewULID()
	svcs := newTestServices()
	svcs.sessions.DeleteFunc = func(ctx context.Context, userID, sessionID string) error {
		if userID != "owner" {
			return domain.NewNotAuthorizedError()
		}
		return nil
	}
	app := setupTestApp(svcs)

	resp, raw := doRequest(t, app, "DELETE", "/api/sessions/"+id, nil, "token-owner")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"message":"Session deleted successfully"}`, string(raw))

	resp, raw = doRequest(t, app, "DELETE", "/api/sessions/"+id, nil, "token-intruder")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NOT_AUTHORIZED", decodeError(t, raw).Code)
}
