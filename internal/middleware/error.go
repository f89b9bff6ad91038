package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// defaultRetryAfterSeconds is advertised when a rate-limit error carries no delay.
const defaultRetryAfterSeconds = 5

// ErrorHandler is a centralized error handler. When hideDetails is set (production)
// responses carry no details or stack.
func ErrorHandler(hideDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := buildErrorResponse(c, err)
		if hideDetails {
			resp.Details = nil
			resp.Stack = ""
		} else if resp.Status >= http.StatusInternalServerError {
			resp.Stack = err.Error()
		}

		fields := []zap.Field{
			zap.String("path", c.Path()),
			zap.String("code", resp.Code),
			zap.Int("status", resp.Status),
			zap.Error(err),
		}
		if resp.Status >= http.StatusInternalServerError {
			logger.Get().Error("Request failed", fields...)
		} else {
			logger.Get().Warn("Request rejected", fields...)
		}

		return c.Status(resp.Status).JSON(resp)
	}
}

func buildErrorResponse(c *fiber.Ctx, err error) dto.ErrorResponse {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return dto.ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "Request validation failed: " + validationErrs.Error(),
			Status:  http.StatusBadRequest,
			Details: []domain.ValidationError(validationErrs),
		}
	}
	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		return dto.ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "Request validation failed: " + validationErr.Error(),
			Status:  http.StatusBadRequest,
			Details: []domain.ValidationError{validationErr},
		}
	}

	var aiErr *domain.AIError
	if errors.As(err, &aiErr) {
		return aiErrorResponse(c, aiErr)
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp := dto.ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  mapDomainErrorToHTTPStatus(domainErr),
		}
		if len(domainErr.Context) > 0 {
			resp.Details = domainErr.Context
		}
		return resp
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return dto.ErrorResponse{
			Code:    "HTTP_ERROR",
			Message: fiberErr.Message,
			Status:  fiberErr.Code,
		}
	}

	return dto.ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}

func aiErrorResponse(c *fiber.Ctx, e *domain.AIError) dto.ErrorResponse {
	resp := dto.ErrorResponse{Code: string(e.Kind)}
	details := fiber.Map{}
	if e.StatusCode != 0 {
		details["upstreamStatus"] = e.StatusCode
	}

	kind := e.Kind
	if kind == domain.AIRetriesExhausted {
		details["attempts"] = e.Attempts
		details["lastKind"] = e.LastKind
		if e.LastKind == domain.AIRateLimited {
			kind = domain.AIRateLimited
		}
	}

	switch kind {
	case domain.AIMissingAPIKey, domain.AIInvalidAPIKey:
		resp.Status = http.StatusInternalServerError
		resp.Message = "AI service is not configured correctly"
	case domain.AIQuotaExceeded:
		resp.Status = http.StatusTooManyRequests
		resp.Message = "Daily AI quota exceeded, please try again tomorrow"
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secondsUntilUTCMidnight(time.Now())))
	case domain.AIRateLimited:
		resp.Status = http.StatusTooManyRequests
		resp.Message = "AI service is busy, please retry shortly"
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(e.RetryAfter)))
	case domain.AIUpstreamClientError:
		resp.Status = http.StatusBadGateway
		resp.Message = "AI service rejected the request"
	default:
		resp.Status = http.StatusServiceUnavailable
		resp.Message = "AI service is temporarily unavailable"
	}

	if len(details) > 0 {
		resp.Details = details
	}
	return resp
}

func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return defaultRetryAfterSeconds
	}
	return int((d + time.Second - 1) / time.Second)
}

func secondsUntilUTCMidnight(now time.Time) int {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return int(midnight.Sub(now).Seconds()) + 1
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound, domain.CodeSessionNotFound, domain.CodeQuestionNotFound, domain.CodeUserNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeUserExists:
		return http.StatusBadRequest
	case domain.CodeUnauthorized, domain.CodeInvalidCredentials, domain.CodeInvalidToken, domain.CodeNotAuthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeAIServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
