package models

import "time"

// MaxFactTextLen is the inclusive upper bound on fact text length.
const MaxFactTextLen = 200

type Fact struct {
	ID               int       `gorm:"primaryKey" json:"id"`
	Text             string    `gorm:"not null" json:"text"`
	Category         string    `gorm:"not null;index" json:"category"`
	Source           string    `gorm:"not null" json:"source"`
	VotesInteresting int       `gorm:"not null;default:0" json:"votesInteresting"`
	VotesMindblowing int       `gorm:"not null;default:0" json:"votesMindblowing"`
	VotesFalse       int       `gorm:"not null;default:0" json:"votesFalse"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsDisputed reports whether false votes outweigh the positive votes combined.
// Equality is not disputed.
func (f Fact) IsDisputed() bool {
	return f.VotesFalse > f.VotesInteresting+f.VotesMindblowing
}

type CreateFactRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Source   string `json:"source"`
}
