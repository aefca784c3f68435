// Package feed implements the fact feed and voting engine: category-filtered
// retrieval, submission validation, and deduplicated vote casting.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/categories"
	"github.com/today-i-learned/backend/internal/models"
	"github.com/today-i-learned/backend/internal/store"
)

// FeedLimit caps how many facts a single feed load returns.
const FeedLimit = 1000

// Engine orchestrates the fact store, vote ledger and authorship ledger.
// It keeps a snapshot of the last successfully loaded feed; a failed reload
// leaves the snapshot intact.
type Engine struct {
	db          *gorm.DB
	facts       *store.Facts
	votes       *store.Votes
	authorships *store.Authorships

	mu       sync.Mutex
	snapshot []models.Fact
}

func New(db *gorm.DB) *Engine {
	return &Engine{
		db:          db,
		facts:       store.NewFacts(db),
		votes:       store.NewVotes(db),
		authorships: store.NewAuthorships(db),
	}
}

// LoadFeed returns facts for the category ("all" disables the filter), sorted
// by interesting votes descending and capped at FeedLimit. On success the
// snapshot is replaced; on store failure the previous snapshot survives.
func (e *Engine) LoadFeed(ctx context.Context, category string) ([]models.Fact, error) {
	if category != "all" && !categories.Valid(category) {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}

	facts, err := e.facts.List(ctx, category, FeedLimit)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.snapshot = facts
	e.mu.Unlock()

	return facts, nil
}

// Cached returns a copy of the last successfully loaded feed.
func (e *Engine) Cached() []models.Fact {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Fact, len(e.snapshot))
	copy(out, e.snapshot)
	return out
}

// SubmitFact validates the submission, then inserts the fact and its
// authorship record in one transaction. All vote counters start at zero.
func (e *Engine) SubmitFact(ctx context.Context, user *models.User, req models.CreateFactRequest) (models.Fact, error) {
	if user == nil {
		return models.Fact{}, ErrLoginRequired
	}
	if err := validateSubmission(req); err != nil {
		return models.Fact{}, err
	}

	fact := models.Fact{
		Text:     req.Text,
		Category: req.Category,
		Source:   req.Source,
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := e.facts.WithTx(tx).Create(ctx, &fact); err != nil {
			return err
		}
		return e.authorships.WithTx(tx).Create(ctx, user.ID, fact.ID)
	})
	if err != nil {
		return models.Fact{}, err
	}

	e.mu.Lock()
	e.snapshot = append(e.snapshot, fact)
	e.mu.Unlock()

	return fact, nil
}

// CastVote records one vote by user on a fact. The ledger insert goes first:
// its unique (user_id, post_id) index turns concurrent duplicates into a
// single-writer-wins outcome, and the counter increment shares the
// transaction so the ledger and counters cannot drift.
func (e *Engine) CastVote(ctx context.Context, user *models.User, factID int, voteType models.VoteType) (models.Fact, error) {
	if user == nil {
		return models.Fact{}, ErrLoginRequired
	}
	if voteType.Column() == "" {
		return models.Fact{}, &ValidationError{Field: "voteType", Reason: fmt.Sprintf("unknown vote type %q", voteType)}
	}

	var updated models.Fact
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := e.votes.WithTx(tx).Create(ctx, user.ID, factID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		fact, err := e.facts.WithTx(tx).IncrementVote(ctx, factID, voteType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFactNotFound
			}
			return err
		}
		updated = fact
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			log.Printf("duplicate vote rejected: user %d fact %d", user.ID, factID)
		}
		return models.Fact{}, err
	}

	e.mu.Lock()
	for i := range e.snapshot {
		if e.snapshot[i].ID == updated.ID {
			e.snapshot[i] = updated
			break
		}
	}
	e.mu.Unlock()

	return updated, nil
}

// HasVoted reports whether the user already has a ledger entry for the fact.
func (e *Engine) HasVoted(ctx context.Context, user *models.User, factID int) (bool, error) {
	if user == nil {
		return false, nil
	}
	return e.votes.Exists(ctx, user.ID, factID)
}

// FactsByUser returns the facts a user submitted, per the authorship ledger.
func (e *Engine) FactsByUser(ctx context.Context, user *models.User) ([]models.Fact, error) {
	if user == nil {
		return nil, ErrLoginRequired
	}
	ids, err := e.authorships.FactIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	facts := make([]models.Fact, 0, len(ids))
	for _, id := range ids {
		fact, err := e.facts.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

func validateSubmission(req models.CreateFactRequest) error {
	if req.Text == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(req.Text) > models.MaxFactTextLen {
		return &ValidationError{Field: "text", Reason: fmt.Sprintf("must be at most %d characters", models.MaxFactTextLen)}
	}
	if req.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if !categories.Valid(req.Category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", req.Category)}
	}
	if !isValidHTTPURL(req.Source) {
		return &ValidationError{Field: "source", Reason: "must be an absolute http or https URL"}
	}
	return nil
}

func isValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
