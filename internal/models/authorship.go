package models

import "time"

// Authorship links a user to a fact they submitted. It lives in its own table
// ("posts" in the original schema) and is distinct from the vote ledger.
type Authorship struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the original table name for the authorship ledger.
func (Authorship) TableName() string {
	return "posts"
}
