package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "testsecretkeydontuseinproduction"

func newTestAuthService(t *testing.T, repo *MockUserRepository) AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, config.JWTConfig{SecretKey: testSecret, Expiry: time.Hour})
	require.NoError(t, err)
	return svc
}

func assertDomainCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(new(MockUserRepository), config.JWTConfig{})
	assert.Error(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(t, repo)

	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, nil)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ada@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user1"
	}).Return(nil)

	user, token, err := svc.Register(context.Background(), "Ada", " Ada@Example.com ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "user1", user.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_UserExists(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(t, repo)

	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(&domain.User{ID: "existing"}, nil)

	_, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1", "")
	assertDomainCode(t, err, domain.CodeUserExists)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))

	_, _, err := svc.Register(context.Background(), "", "not-an-email", "123", "")

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
}

func TestAuthService_Login(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(t, repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "user1", Email: "ada@example.com", PasswordHash: string(hash)}
	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(stored, nil)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	t.Run("correct password", func(t *testing.T) {
		user, token, err := svc.Login(context.Background(), "ada@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		assertDomainCode(t, err, domain.CodeInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
		assertDomainCode(t, err, domain.CodeInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "", "")
		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 2)
	})
}

func TestAuthService_Profile(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(t, repo)

	repo.On("GetUserByID", mock.Anything, "user1").Return(&domain.User{ID: "user1"}, nil)
	repo.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)

	user, err := svc.Profile(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", user.ID)

	_, err = svc.Profile(context.Background(), "ghost")
	assertDomainCode(t, err, domain.CodeUserNotFound)
}

func TestAuthService_ValidateJWT_Rejections(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	ctx := context.Background()

	t.Run("expired", func(t *testing.T) {
		claims := dto.AuthClaims{UserID: "user1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		_, err := svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := dto.AuthClaims{UserID: "user1"}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
		_, err := svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		claims := dto.AuthClaims{UserID: "user1"}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		_, err := svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, dto.AuthClaims{}).SignedString([]byte(testSecret))
		_, err := svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateJWT(ctx, "not.a.token")
		assert.Error(t, err)
	})
}
