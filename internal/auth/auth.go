// Package auth resolves username/password credentials to user identities and
// issues the signed tokens that persist an identity for 30 days.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/today-i-learned/backend/internal/feed"
	"github.com/today-i-learned/backend/internal/models"
	"github.com/today-i-learned/backend/internal/store"
)

// TokenTTL is how long an issued identity stays valid.
const TokenTTL = 30 * 24 * time.Hour

// ErrInvalidCredentials rejects a login for an existing username with the
// wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

type Service struct {
	users *store.Users
}

func NewService(db *gorm.DB) *Service {
	return &Service{users: store.NewUsers(db)}
}

// ResolveOrCreate looks up the username and returns its identity. An unseen
// username is a signup: the user is created with the given password. A seen
// username must match its stored password exactly.
func (s *Service) ResolveOrCreate(ctx context.Context, username, password string) (models.User, error) {
	if username == "" {
		return models.User{}, &feed.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return models.User{}, &feed.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	user, found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	if !found {
		user = models.User{Username: username, Password: password}
		if err := s.users.Create(ctx, &user); err != nil {
			return models.User{}, err
		}
		return user, nil
	}

	if user.Password != password {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a token carrying the identity, expiring after TokenTTL.
func (s *Service) IssueToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates a token and returns the identity it carries.
func ParseToken(tokenString string) (models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return models.User{}, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	username, _ := claims["username"].(string)

	return models.User{ID: int(userID), Username: username}, nil
}
