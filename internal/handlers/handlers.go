package handlers

import (
	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/auth"
	"github.com/today-i-learned/backend/internal/feed"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	Fact *FactHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	engine := feed.New(db)
	authService := auth.NewService(db)

	return &Handler{
		Auth: NewAuthHandler(authService),
		Fact: NewFactHandler(engine),
	}
}
