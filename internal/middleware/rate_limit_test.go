package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func limitedRouter(limiter *RateLimiter, userID uuid.UUID, perRecipe bool) *gin.Engine {
	router := gin.New()
	setUser := func(c *gin.Context) {
		c.Set(userIDKey, userID)
		c.Next()
	}
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	if perRecipe {
		router.PATCH("/recipes/:id", setUser, limiter.PerRecipeRateLimitMiddleware(), handler)
	} else {
		router.POST("/recipes", setUser, limiter.RateLimitMiddleware(), handler)
	}
	return router
}

func newTestLimiter(client *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "test:" + uuid.NewString(),
	})
}

func TestRateLimiterFailsOpen(t *testing.T) {
	limiter := newTestLimiter(testhelpers.UnreachableRedis(t), 1)
	router := limitedRouter(limiter, uuid.New(), false)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	}
}

func TestRateLimiterRequiresUser(t *testing.T) {
	limiter := newTestLimiter(testhelpers.UnreachableRedis(t), 1)
	router := gin.New()
	router.POST("/recipes", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes", nil))
	assert.Equal(t, StatusNoToken, w.Code)
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)

	t.Run("per user", func(t *testing.T) {
		limiter := newTestLimiter(client, 2)
		router := limitedRouter(limiter, uuid.New(), false)

		codes := make([]int, 0, 3)
		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			router.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/recipes", nil))
			codes = append(codes, last.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, last.Header().Get("Retry-After"))
	})

	t.Run("per recipe keys are independent", func(t *testing.T) {
		limiter := newTestLimiter(client, 1)
		userID := uuid.New()
		router := limitedRouter(limiter, userID, true)

		first, second := uuid.NewString(), uuid.NewString()
		for _, tc := range []struct {
			recipe string
			want   int
		}{
			{first, http.StatusOK},
			{second, http.StatusOK},
			{first, http.StatusTooManyRequests},
		} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/recipes/"+tc.recipe, nil))
			assert.Equal(t, tc.want, w.Code)
		}

		remaining, reset, err := limiter.GetRemainingRequests(context.Background(), RecipeKey(userID.String(), second))
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
		assert.True(t, reset.After(time.Now()))
	})

	t.Run("remaining without traffic", func(t *testing.T) {
		limiter := newTestLimiter(client, 5)
		remaining, _, err := limiter.GetRemainingRequests(context.Background(), uuid.NewString())
		require.NoError(t, err)
		assert.Equal(t, 5, remaining)
		assert.Equal(t, 5, limiter.Config().Limit)
	})
}
