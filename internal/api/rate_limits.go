package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/middleware"
)

// RateLimiters groups the optional Redis-backed limiters. Nil limiters
// disable limiting.
type RateLimiters struct {
	Creation     *middleware.RateLimiter
	Modification *middleware.RateLimiter
}

// Enabled reports whether limiting is active
func (l RateLimiters) Enabled() bool {
	return l.Creation != nil && l.Modification != nil
}

func (l RateLimiters) creation() gin.HandlerFunc {
	if l.Creation == nil {
		return passThrough
	}
	return l.Creation.RateLimitMiddleware()
}

func (l RateLimiters) modification() gin.HandlerFunc {
	if l.Modification == nil {
		return passThrough
	}
	return l.Modification.PerRecipeRateLimitMiddleware()
}

func passThrough(c *gin.Context) {
	c.Next()
}

// LimitStatus is one limiter's state for the caller
type LimitStatus struct {
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetTime int64  `json:"resetTime"`
	Window    string `json:"window"`
	RecipeID  string `json:"recipeId,omitempty"`
}

// RateLimitStatus reports the caller's remaining recipe creations and, with
// ?recipeId=, the remaining modifications of that recipe
func (h *UserHandler) RateLimitStatus(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	remaining, reset, err := h.limits.Creation.GetRemainingRequests(ctx, userID.String())
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read rate limit")
		message(c, http.StatusServiceUnavailable, "Failed to check rate limit")
		return
	}
	cfg := h.limits.Creation.Config()
	resp := gin.H{
		"recipeCreation": LimitStatus{
			Limit:     cfg.Limit,
			Remaining: remaining,
			ResetTime: reset.Unix(),
			Window:    cfg.Window.String(),
		},
	}

	if recipeID := c.Query("recipeId"); recipeID != "" {
		remaining, reset, err := h.limits.Modification.GetRemainingRequests(ctx, middleware.RecipeKey(userID.String(), recipeID))
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read rate limit")
			message(c, http.StatusServiceUnavailable, "Failed to check rate limit")
			return
		}
		cfg := h.limits.Modification.Config()
		resp["recipeModification"] = LimitStatus{
			Limit:     cfg.Limit,
			Remaining: remaining,
			ResetTime: reset.Unix(),
			Window:    cfg.Window.String(),
			RecipeID:  recipeID,
		}
	}

	c.JSON(http.StatusOK, resp)
}
