// Package store owns persistence for facts, votes, users and authorship
// records. Each store wraps a *gorm.DB; WithTx rebinds a store to a
// transaction so callers can group writes.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/models"
)

type Facts struct {
	db *gorm.DB
}

func NewFacts(db *gorm.DB) *Facts {
	return &Facts{db: db}
}

func (s *Facts) WithTx(tx *gorm.DB) *Facts {
	return &Facts{db: tx}
}

// List returns facts ordered by interesting votes descending, capped at limit.
// Ties keep insertion order. An empty category or "all" disables the filter.
func (s *Facts) List(ctx context.Context, category string, limit int) ([]models.Fact, error) {
	q := s.db.WithContext(ctx).Model(&models.Fact{})
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}

	var facts []models.Fact
	err := q.Order("votes_interesting DESC, id ASC").Limit(limit).Find(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	return facts, nil
}

func (s *Facts) Get(ctx context.Context, id int) (models.Fact, error) {
	var fact models.Fact
	if err := s.db.WithContext(ctx).First(&fact, id).Error; err != nil {
		return models.Fact{}, fmt.Errorf("get fact %d: %w", id, err)
	}
	return fact, nil
}

func (s *Facts) Create(ctx context.Context, fact *models.Fact) error {
	if err := s.db.WithContext(ctx).Create(fact).Error; err != nil {
		return fmt.Errorf("create fact: %w", err)
	}
	return nil
}

// IncrementVote bumps one vote counter by exactly 1 in a single UPDATE scoped
// by fact id, then returns the updated row.
func (s *Facts) IncrementVote(ctx context.Context, id int, voteType models.VoteType) (models.Fact, error) {
	column := voteType.Column()
	if column == "" {
		return models.Fact{}, fmt.Errorf("unknown vote type %q", voteType)
	}

	res := s.db.WithContext(ctx).Model(&models.Fact{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return models.Fact{}, fmt.Errorf("increment %s on fact %d: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Fact{}, fmt.Errorf("increment %s on fact %d: %w", column, id, gorm.ErrRecordNotFound)
	}

	return s.Get(ctx, id)
}
