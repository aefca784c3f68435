package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/models"
)

// Votes is the dedup ledger: one row per (user, fact) pair, enforced by the
// unique index on the votes table.
type Votes struct {
	db *gorm.DB
}

func NewVotes(db *gorm.DB) *Votes {
	return &Votes{db: db}
}

func (s *Votes) WithTx(tx *gorm.DB) *Votes {
	return &Votes{db: tx}
}

// Create inserts the ledger row. A second vote by the same user on the same
// fact comes back as gorm.ErrDuplicatedKey, unwrapped for callers to match on.
func (s *Votes) Create(ctx context.Context, userID, factID int) error {
	vote := models.Vote{UserID: userID, PostID: factID}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("create vote (user %d, fact %d): %w", userID, factID, err)
	}
	return nil
}

// Exists reports whether the user has a ledger row for the fact.
func (s *Votes) Exists(ctx context.Context, userID, factID int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND post_id = ?", userID, factID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("find vote (user %d, fact %d): %w", userID, factID, err)
	}
	return count > 0, nil
}
