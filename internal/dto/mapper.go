package dto

import "prepmate/internal/domain"

func NewQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:        q.ID,
		SessionID: q.SessionID,
		Question:  q.Question,
		Answer:    q.Answer,
		Note:      q.Note,
		IsPinned:  q.IsPinned,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func NewQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}

func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		Role:          s.Role,
		Experience:    s.Experience,
		TopicsToFocus: s.TopicsToFocus,
		Description:   s.Description,
		Questions:     NewQuestionResponses(s.Questions),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToQuestionDrafts converts request items into unsaved domain questions for sessionID.
func ToQuestionDrafts(sessionID string, items []QuestionInput) []*domain.Question {
	out := make([]*domain.Question, 0, len(items))
	for _, item := range items {
		out = append(out, domain.NewQuestion(sessionID, item.Question, item.Answer, item.IsPinned))
	}
	return out
}
