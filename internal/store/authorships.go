package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/models"
)

// Authorships records who submitted which fact. Separate table from the vote
// ledger; losing a row here never blocks the fact itself.
type Authorships struct {
	db *gorm.DB
}

func NewAuthorships(db *gorm.DB) *Authorships {
	return &Authorships{db: db}
}

func (s *Authorships) WithTx(tx *gorm.DB) *Authorships {
	return &Authorships{db: tx}
}

func (s *Authorships) Create(ctx context.Context, userID, factID int) error {
	record := models.Authorship{UserID: userID, PostID: factID}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("create authorship (user %d, fact %d): %w", userID, factID, err)
	}
	return nil
}

// FactIDsByUser returns ids of facts the user submitted, newest first.
func (s *Authorships) FactIDsByUser(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := s.db.WithContext(ctx).Model(&models.Authorship{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list authorships for user %d: %w", userID, err)
	}
	return ids, nil
}
