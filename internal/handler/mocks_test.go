package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/handler"
	"prepmate/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error)
	LoginFunc       func(ctx context.Context, email, password string) (*domain.User, string, error)
	ProfileFunc     func(ctx context.Context, userID string) (*domain.User, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password, profileImageURL)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	panic("MockAuthService.ProfileFunc not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

// ValidateJWT accepts "token-<userID>" unless overridden.
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	if userID, ok := strings.CutPrefix(tokenString, "token-"); ok && userID != "" {
		return &dto.AuthClaims{UserID: userID}, nil
	}
	return nil, errors.New("invalid token")
}

type MockAIService struct {
	GenerateQuestionsFunc   func(ctx context.Context, req domain.QuestionRequest) (*domain.GeneratedQuestions, error)
	GenerateExplanationFunc func(ctx context.Context, req domain.ExplanationRequest) (*domain.Explanation, error)
	UsageFunc               func(ctx context.Context) domain.UsageSnapshot
}

func (m *MockAIService) GenerateQuestions(ctx context.Context, req domain.QuestionRequest) (*domain.GeneratedQuestions, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, req)
	}
	panic("MockAIService.GenerateQuestionsFunc not implemented")
}
func (m *MockAIService) GenerateExplanation(ctx context.Context, req domain.ExplanationRequest) (*domain.Explanation, error) {
	if m.GenerateExplanationFunc != nil {
		return m.GenerateExplanationFunc(ctx, req)
	}
	panic("MockAIService.GenerateExplanationFunc not implemented")
}
func (m *MockAIService) Usage(ctx context.Context) domain.UsageSnapshot {
	if m.UsageFunc != nil {
		return m.UsageFunc(ctx)
	}
	panic("MockAIService.UsageFunc not implemented")
}

type MockSessionService struct {
	CreateFunc   func(ctx context.Context, session *domain.Session, questions []*domain.Question) (*domain.Session, error)
	ListMineFunc func(ctx context.Context, userID string) ([]*domain.Session, error)
	GetFunc      func(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteFunc   func(ctx context.Context, userID, sessionID string) error
}

func (m *MockSessionService) Create(ctx context.Context, session *domain.Session, questions []*domain.Question) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session, questions)
	}
	panic("MockSessionService.CreateFunc not implemented")
}
func (m *MockSessionService) ListMine(ctx context.Context, userID string) ([]*domain.Session, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, userID)
	}
	panic("MockSessionService.ListMineFunc not implemented")
}
func (m *MockSessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	panic("MockSessionService.GetFunc not implemented")
}
func (m *MockSessionService) Delete(ctx context.Context, userID, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, sessionID)
	}
	panic("MockSessionService.DeleteFunc not implemented")
}

type MockQuestionService struct {
	AddToSessionFunc func(ctx context.Context, userID, sessionID string, questions []*domain.Question) ([]*domain.Question, error)
	TogglePinFunc    func(ctx context.Context, userID, questionID string) (*domain.Question, error)
	UpdateNoteFunc   func(ctx context.Context, userID, questionID, note string) (*domain.Question, error)
}

func (m *MockQuestionService) AddToSession(ctx context.Context, userID, sessionID string, questions []*domain.Question) ([]*domain.Question, error) {
	if m.AddToSessionFunc != nil {
		return m.AddToSessionFunc(ctx, userID, sessionID, questions)
	}
	panic("MockQuestionService.AddToSessionFunc not implemented")
}
func (m *MockQuestionService) TogglePin(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	if m.TogglePinFunc != nil {
		return m.TogglePinFunc(ctx, userID, questionID)
	}
	panic("MockQuestionService.TogglePinFunc not implemented")
}
func (m *MockQuestionService) UpdateNote(ctx context.Context, userID, questionID, note string) (*domain.Question, error) {
	if m.UpdateNoteFunc != nil {
		return m.UpdateNoteFunc(ctx, userID, questionID, note)
	}
	panic("MockQuestionService.UpdateNoteFunc not implemented")
}

// --- Test app ---

type testServices struct {
	auth      *MockAuthService
	ai        *MockAIService
	sessions  *MockSessionService
	questions *MockQuestionService
}

func newTestServices() *testServices {
	return &testServices{
		auth:      &MockAuthService{},
		ai:        &MockAIService{},
		sessions:  &MockSessionService{},
		questions: &MockQuestionService{},
	}
}

func setupTestApp(s *testServices) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(false)})
	handler.SetupRoutes(app, handler.Handlers{
		Auth:     handler.NewAuthHandler(s.auth),
		AI:       handler.NewAIHandler(s.ai),
		Session:  handler.NewSessionHandler(s.sessions),
		Question: handler.NewQuestionHandler(s.questions),
	}, s.auth)
	return app
}

// doRequest sends body (marshalled when not a string) with an optional bearer token.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
