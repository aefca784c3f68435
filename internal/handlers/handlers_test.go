package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/today-i-learned/backend/internal/middleware"
	"github.com/today-i-learned/backend/internal/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Fact{},
		&models.Authorship{},
		&models.Vote{},
	))

	h := NewHandler(db)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)
	api.GET("/categories", h.Fact.GetCategories)
	api.GET("/facts", middleware.OptionalAuth(), h.Fact.GetFacts)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/me", h.Auth.GetMe)
	protected.GET("/me/facts", h.Fact.GetMyFacts)
	protected.POST("/facts", h.Fact.CreateFact)
	protected.POST("/facts/:id/vote", h.Fact.VoteFact)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", "", models.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginSignupAndWrongPassword(t *testing.T) {
	r := setupRouter(t)

	login(t, r, "alice", "secret")

	w := doJSON(t, r, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "alice", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			found = true
			assert.NotEmpty(t, c.Value)
			// 30 days
			assert.Equal(t, 30*24*3600, c.MaxAge)
		}
	}
	assert.True(t, found, "session cookie should be set")
}

func TestCategoriesEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cats []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Len(t, cats, 8)
}

func TestSubmitVoteFlow(t *testing.T) {
	r := setupRouter(t)
	token := login(t, r, "alice", "secret")

	// Unauthenticated submission is rejected.
	w := doJSON(t, r, http.MethodPost, "/api/facts", "", models.CreateFactRequest{
		Text: "ok", Category: "technology", Source: "https://x.com",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid submission.
	w = doJSON(t, r, http.MethodPost, "/api/facts", token, models.CreateFactRequest{
		Text: "Go was announced in 2009", Category: "technology", Source: "https://go.dev",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID               int  `json:"id"`
		VotesInteresting int  `json:"votesInteresting"`
		IsDisputed       bool `json:"isDisputed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Zero(t, created.VotesInteresting)
	assert.False(t, created.IsDisputed)

	// Validation failures are 400s with a message, not silent drops.
	w = doJSON(t, r, http.MethodPost, "/api/facts", token, models.CreateFactRequest{
		Text: "ok", Category: "technology", Source: "ftp://x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// First vote lands.
	votePath := fmt.Sprintf("/api/facts/%d/vote", created.ID)
	w = doJSON(t, r, http.MethodPost, votePath, token, models.CastVoteRequest{VoteType: models.VoteInteresting})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var voted struct {
		VotesInteresting int `json:"votesInteresting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voted))
	assert.Equal(t, 1, voted.VotesInteresting)

	// Second vote by the same user conflicts, whatever the type.
	w = doJSON(t, r, http.MethodPost, votePath, token, models.CastVoteRequest{VoteType: models.VoteFalse})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Another user can still vote.
	bob := login(t, r, "bob", "hunter2")
	w = doJSON(t, r, http.MethodPost, votePath, bob, models.CastVoteRequest{VoteType: models.VoteMindblowing})
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown fact and unknown vote type.
	w = doJSON(t, r, http.MethodPost, "/api/facts/9999/vote", token, models.CastVoteRequest{VoteType: models.VoteInteresting})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, votePath, bob, models.CastVoteRequest{VoteType: models.VoteType("votesBogus")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFactsFilterAndOrder(t *testing.T) {
	r := setupRouter(t)
	token := login(t, r, "alice", "secret")

	for _, f := range []models.CreateFactRequest{
		{Text: "science one", Category: "science", Source: "https://x.com"},
		{Text: "tech one", Category: "technology", Source: "https://x.com"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/facts", token, f)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/facts?category=science", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var facts []struct {
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facts))
	require.Len(t, facts, 1)
	assert.Equal(t, "science", facts[0].Category)

	w = doJSON(t, r, http.MethodGet, "/api/facts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facts))
	assert.Len(t, facts, 2)

	w = doJSON(t, r, http.MethodGet, "/api/facts?category=cooking", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFactsHasVotedFlag(t *testing.T) {
	r := setupRouter(t)
	token := login(t, r, "alice", "secret")

	var ids []int
	for _, text := range []string{"voted on", "not voted on"} {
		w := doJSON(t, r, http.MethodPost, "/api/facts", token, models.CreateFactRequest{
			Text: text, Category: "science", Source: "https://x.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created struct {
			ID int `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		ids = append(ids, created.ID)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/facts/%d/vote", ids[0]), token,
		models.CastVoteRequest{VoteType: models.VoteInteresting})
	require.Equal(t, http.StatusOK, w.Code)

	// With an identity, each fact reports whether this user already voted.
	w = doJSON(t, r, http.MethodGet, "/api/facts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var facts []struct {
		ID       int  `json:"id"`
		HasVoted bool `json:"hasVoted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facts))
	require.Len(t, facts, 2)

	byID := map[int]bool{}
	for _, f := range facts {
		byID[f.ID] = f.HasVoted
	}
	assert.True(t, byID[ids[0]])
	assert.False(t, byID[ids[1]])

	// Another identity has its own view.
	bob := login(t, r, "bob", "hunter2")
	w = doJSON(t, r, http.MethodGet, "/api/facts", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facts))
	for _, f := range facts {
		assert.False(t, f.HasVoted)
	}

	// Anonymous requests still get the feed, with the flag down everywhere.
	w = doJSON(t, r, http.MethodGet, "/api/facts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facts))
	require.Len(t, facts, 2)
	for _, f := range facts {
		assert.False(t, f.HasVoted)
	}

	// A garbage token is anonymous, not an error, on the public feed.
	w = doJSON(t, r, http.MethodGet, "/api/facts", "not.a.token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeEndpoints(t *testing.T) {
	r := setupRouter(t)
	token := login(t, r, "alice", "secret")

	w := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	w = doJSON(t, r, http.MethodPost, "/api/facts", token, models.CreateFactRequest{
		Text: "mine", Category: "history", Source: "https://x.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/me/facts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mine []struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Text)

	w = doJSON(t, r, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
