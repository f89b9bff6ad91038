package dto

import "time"

// QuestionInput is one question supplied when creating a session or adding questions.
type QuestionInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	IsPinned bool   `json:"isPinned"`
}

// CreateSessionRequest represents the request body for creating a session
// @Description Session with its initial questions
type CreateSessionRequest struct {
	Role          string          `json:"role"`
	Experience    string          `json:"experience"`
	TopicsToFocus string          `json:"topicsToFocus"`
	Description   string          `json:"description"`
	Questions     []QuestionInput `json:"questions"`
}

// AddQuestionsRequest represents the request body for adding questions to a session
type AddQuestionsRequest struct {
	SessionID string          `json:"sessionId"`
	Questions []QuestionInput `json:"questions"`
}

// UpdateNoteRequest represents the request body for updating a question note
type UpdateNoteRequest struct {
	Note string `json:"note"`
}

type QuestionResponse struct {
	ID        string    `json:"_id"`
	SessionID string    `json:"session"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Note      string    `json:"note"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SessionResponse struct {
	ID            string             `json:"_id"`
	UserID        string             `json:"user"`
	Role          string             `json:"role"`
	Experience    string             `json:"experience"`
	TopicsToFocus string             `json:"topicsToFocus"`
	Description   string             `json:"description"`
	Questions     []QuestionResponse `json:"questions"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// SessionEnvelope wraps a single session
type SessionEnvelope struct {
	Success bool            `json:"success"`
	Session SessionResponse `json:"session"`
}

// SessionListEnvelope wraps the caller's sessions
type SessionListEnvelope struct {
	Success  bool              `json:"success"`
	Sessions []SessionResponse `json:"sessions"`
}

// QuestionEnvelope wraps a single question
type QuestionEnvelope struct {
	Success  bool             `json:"success"`
	Question QuestionResponse `json:"question"`
}

// QuestionListEnvelope wraps several questions
type QuestionListEnvelope struct {
	Success   bool               `json:"success"`
	Questions []QuestionResponse `json:"questions"`
}
