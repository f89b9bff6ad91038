package validation

import (
	"math"
	"strconv"
	"strings"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/util"
)

const (
	MinQuestions = 1
	MaxQuestions = 20

	maxConceptLength = 200
	maxNoteLength    = 4000
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuestionsRequest checks the generation request and returns the
// parsed question count. numberOfQuestions may arrive as a JSON number or a numeric string.
func (v *Validator) ValidateGenerateQuestionsRequest(req dto.GenerateQuestionsRequest) (int, domain.ValidationErrors) {
	var errors domain.ValidationErrors

	required := []struct{ field, value string }{
		{"role", req.Role},
		{"experience", req.Experience},
		{"topicsToFocus", req.TopicsToFocus},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errors = append(errors, domain.NewMissingFieldError(r.field))
		}
	}

	count, ok := parseCount(req.NumberOfQuestions)
	switch {
	case req.NumberOfQuestions == nil:
		errors = append(errors, domain.NewMissingFieldError("numberOfQuestions"))
	case !ok:
		errors = append(errors, domain.NewInvalidFormatError("numberOfQuestions", req.NumberOfQuestions))
	case count < MinQuestions || count > MaxQuestions:
		errors = append(errors, domain.NewOutOfRangeError("numberOfQuestions", count, MinQuestions, MaxQuestions))
	}

	return count, errors
}

// ValidateGenerateExplanationRequest validates the explanation request. Defaults and
// the difficulty whitelist are applied by the AI service.
func (v *Validator) ValidateGenerateExplanationRequest(req dto.GenerateExplanationRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	concept := strings.TrimSpace(req.Concept)
	if concept == "" {
		errors = append(errors, domain.NewMissingFieldError("concept"))
	} else if len(concept) > maxConceptLength {
		errors = append(errors, domain.NewOutOfRangeError("concept", len(concept), 1, maxConceptLength))
	}

	return errors
}

func (v *Validator) ValidateLoginRequest(req dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

// ValidateCreateSessionRequest validates the session body.
func (v *Validator) ValidateCreateSessionRequest(req dto.CreateSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Role) == "" {
		errors = append(errors, domain.NewMissingFieldError("role"))
	}
	if req.Questions == nil {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	}
	return errors
}

func (v *Validator) ValidateAddQuestionsRequest(req dto.AddQuestionsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.SessionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("sessionId"))
	} else if !util.IsULID(req.SessionID) {
		errors = append(errors, domain.NewInvalidFormatError("sessionId", req.SessionID))
	}

	if len(req.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	}

	return errors
}

func (v *Validator) ValidateUpdateNoteRequest(req dto.UpdateNoteRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(req.Note) > maxNoteLength {
		errors = append(errors, domain.NewOutOfRangeError("note", len(req.Note), 0, maxNoteLength))
	}
	return errors
}

// ValidateID validates a path identifier.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !util.IsULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}

	return errors
}

// parseCount accepts whole JSON numbers and base-10 numeric strings.
func parseCount(raw interface{}) (int, bool) {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
