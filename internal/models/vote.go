package models

import "time"

// VoteType names the fact counter a vote lands on.
type VoteType string

const (
	VoteInteresting VoteType = "votesInteresting"
	VoteMindblowing VoteType = "votesMindblowing"
	VoteFalse       VoteType = "votesFalse"
)

// Column returns the facts table column backing the vote type, or "" if the
// type is unknown. Callers must treat "" as invalid input, never interpolate it.
func (v VoteType) Column() string {
	switch v {
	case VoteInteresting:
		return "votes_interesting"
	case VoteMindblowing:
		return "votes_mindblowing"
	case VoteFalse:
		return "votes_false"
	}
	return ""
}

// Vote records that a user has voted on a fact, whichever counter it hit.
// The unique index makes a second vote by the same user a duplicate-key error.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CastVoteRequest struct {
	VoteType VoteType `json:"voteType"`
}
