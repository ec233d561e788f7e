// users.go - Credential store backed by GORM

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-journal-backend/apperr"
	"go-journal-backend/models"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts u. The unique index on email is the final word on
// duplicates: a racing registration that passed the pre-check ends here
// as a Conflict.
func (s *Users) Create(ctx context.Context, u *models.User) error {
	const op = "store.Users.Create"

	err := s.db.WithContext(ctx).Create(u).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("Email already registered", fmt.Errorf("%s: %w", op, err))
	default:
		return apperr.Operational("failed to create user", fmt.Errorf("%s: %w", op, err))
	}
}

func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.first(ctx, "store.Users.FindByEmail", "email = ?", email)
}

func (s *Users) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.first(ctx, "store.Users.FindByID", "id = ?", id)
}

func (s *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "store.Users.EmailExists"

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count > 0, nil
}

func (s *Users) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	const op = "store.Users.CountByRole"

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("user_type = ?", role).Count(&count).Error; err != nil {
		return 0, apperr.Operational("failed to count users", fmt.Errorf("%s: %w", op, err))
	}
	return count, nil
}

// List returns every user, oldest first.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	const op = "store.Users.List"

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, apperr.Operational("failed to list users", fmt.Errorf("%s: %w", op, err))
	}
	return users, nil
}

func (s *Users) first(ctx context.Context, op, query string, arg any) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.User{}, apperr.NotFound("user not found")
	default:
		return models.User{}, apperr.Operational("failed to load user", fmt.Errorf("%s: %w", op, err))
	}
}
