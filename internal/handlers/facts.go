package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/today-i-learned/backend/internal/categories"
	"github.com/today-i-learned/backend/internal/feed"
	"github.com/today-i-learned/backend/internal/middleware"
	"github.com/today-i-learned/backend/internal/models"
)

type FactHandler struct {
	engine *feed.Engine
}

func NewFactHandler(engine *feed.Engine) *FactHandler {
	return &FactHandler{engine: engine}
}

// GetCategories returns the fixed category registry.
func (h *FactHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, categories.All())
}

// GetFacts returns the feed for ?category= (default "all"). With an identity
// present (OptionalAuth) each fact carries whether this user already voted.
func (h *FactHandler) GetFacts(c *gin.Context) {
	category := c.DefaultQuery("category", "all")

	facts, err := h.engine.LoadFeed(c.Request.Context(), category)
	if err != nil {
		if feed.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facts"})
		return
	}

	user := middleware.CurrentUser(c)
	responses := make([]gin.H, 0, len(facts))
	for _, fact := range facts {
		voted, err := h.engine.HasVoted(c.Request.Context(), user, fact.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facts"})
			return
		}
		responses = append(responses, factResponse(fact, voted))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateFact submits a new fact (PROTECTED - requires authentication)
func (h *FactHandler) CreateFact(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateFactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fact, err := h.engine.SubmitFact(c.Request.Context(), user, input)
	if err != nil {
		if feed.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fact"})
		return
	}

	c.JSON(http.StatusCreated, factResponse(fact, false))
}

// VoteFact casts a vote on a fact (PROTECTED - requires authentication)
func (h *FactHandler) VoteFact(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	factID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fact id"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fact, err := h.engine.CastVote(c.Request.Context(), user, factID, input.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrAlreadyVoted):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already voted for this fact"})
		case errors.Is(err, feed.ErrFactNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fact not found"})
		case feed.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		}
		return
	}

	c.JSON(http.StatusOK, factResponse(fact, true))
}

// GetMyFacts returns the facts the current user submitted (PROTECTED)
func (h *FactHandler) GetMyFacts(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facts, err := h.engine.FactsByUser(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch your facts"})
		return
	}

	responses := make([]gin.H, 0, len(facts))
	for _, fact := range facts {
		voted, err := h.engine.HasVoted(c.Request.Context(), user, fact.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch your facts"})
			return
		}
		responses = append(responses, factResponse(fact, voted))
	}

	c.JSON(http.StatusOK, responses)
}

func factResponse(fact models.Fact, hasVoted bool) gin.H {
	color, _ := categories.Color(fact.Category)
	return gin.H{
		"id":               fact.ID,
		"text":             fact.Text,
		"category":         fact.Category,
		"categoryColor":    color,
		"source":           fact.Source,
		"votesInteresting": fact.VotesInteresting,
		"votesMindblowing": fact.VotesMindblowing,
		"votesFalse":       fact.VotesFalse,
		"isDisputed":       fact.IsDisputed(),
		"hasVoted":         hasVoted,
		"created_at":       fact.CreatedAt,
	}
}
