package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo domain.UserRepository
	secret   []byte
	expiry   time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, cfg config.JWTConfig) (AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo: userRepo,
		secret:   []byte(cfg.SecretKey),
		expiry:   expiry,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, name, email, password, profileImageURL string) (*domain.User, string, error) {
	user := domain.NewUser(name, email, profileImageURL)

	var errs domain.ValidationErrors
	if err := user.Validate(); err != nil {
		errs = append(errs, err.(domain.ValidationErrors)...)
	}
	if password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	} else if len(password) < domain.MinPasswordLength {
		errs = append(errs, domain.NewTooShortError("password", domain.MinPasswordLength))
	}
	if len(errs) > 0 {
		return nil, "", errs
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, "", domain.NewError(domain.CodeUserExists, "User already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, "", domainErr
		}
		return nil, "", domain.NewInternalError("failed to create user", err)
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to issue token", err)
	}
	logger.Get().Info("User registered", zap.String("userID", user.ID))
	return user, token, nil
}

// Login does not reveal whether the email or the password was wrong.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	var errs domain.ValidationErrors
	if domain.NormalizeEmail(email) == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	}
	if password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	}
	if len(errs) > 0 {
		return nil, "", errs
	}

	invalid := domain.NewError(domain.CodeInvalidCredentials, "Invalid email or password", nil)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, "", invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Get().Info("Failed login attempt", zap.String("userID", user.ID))
		return nil, "", invalid
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to issue token", err)
	}
	return user, token, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewError(domain.CodeUserNotFound, "User not found", nil).WithContext("user_id", userID)
	}
	return user, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateJWT accepts only HS256 tokens that carry a user id.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
