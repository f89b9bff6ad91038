package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prepmate/internal/domain"
	"prepmate/internal/repository/models"
	"prepmate/internal/util"
)

const userColumns = `id, name, email, password_hash, profile_image_url, created_at, updated_at`

// UserDatabaseAdapter implements domain.UserRepository on Oracle.
type UserDatabaseAdapter struct {
	db DBTX
}

func NewUserDatabaseAdapter(db DBTX) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

// CreateUser assigns an ID when missing. A duplicate email yields CodeUserExists.
func (r *UserDatabaseAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := fromDomainUser(user)
	query := `INSERT INTO users (` + userColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Name, m.Email, m.PasswordHash, m.ProfileImageURL, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewError(domain.CodeUserExists, "User already exists", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserDatabaseAdapter) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = :1`, userID)
}

// GetUserByEmail matches the normalized address.
func (r *UserDatabaseAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = :1`, domain.NormalizeEmail(email))
}

func (r *UserDatabaseAdapter) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var m models.User
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&m), nil
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		ProfileImageURL: m.ProfileImageURL.String,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		ProfileImageURL: util.StringToNullString(u.ProfileImageURL),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
