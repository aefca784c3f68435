package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/models"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) WithTx(tx *gorm.DB) *Users {
	return &Users{db: tx}
}

// FindByUsername looks up a user by exact, case-sensitive username.
// A missing user is (User{}, false, nil), not an error.
func (s *Users) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, true, nil
}

func (s *Users) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}
