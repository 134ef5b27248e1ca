package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const msgUserNotFound = "User not found."

// UserHandler serves /api/users, including newsletter subscriptions
type UserHandler struct {
	users       service.IUserService
	subscribers service.ISubscriberService
	auth        middleware.TokenValidator
	limits      RateLimiters
	log         zerolog.Logger
}

func NewUserHandler(users service.IUserService, subscribers service.ISubscriberService, auth middleware.TokenValidator, limits RateLimiters) *UserHandler {
	return &UserHandler{
		users:       users,
		subscribers: subscribers,
		auth:        auth,
		limits:      limits,
		log:         logger.Component("api"),
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.auth)

	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/subscribe", h.Subscribe)
		users.DELETE("/unsubscribe", h.Unsubscribe)
		users.GET("", h.ListUsers)
		if h.limits.Enabled() {
			users.GET("/rate-limits", authed, h.RateLimitStatus)
		}
		users.GET("/:id", h.GetUser)
		users.POST("/change-avatar", authed, h.ChangeAvatar)
		users.PATCH("/edit-user", authed, h.EditProfile)
		users.DELETE("/:id", authed, h.DeleteUser)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(service.Validation(msgBadBody))
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusCreated, "Successfully registered")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(service.Validation(msgBadBody))
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, msgUserNotFound)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) ChangeAvatar(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}

	avatar, closeFile, err := formUpload(c, "avatar")
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer closeFile()

	user, err := h.users.ChangeAvatar(c.Request.Context(), userID, avatar)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) EditProfile(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}

	var req types.EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(service.Validation(msgBadBody))
		return
	}

	user, err := h.users.EditProfile(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "User not found")
	if !ok {
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusOK, "User deleted successfully.")
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	var req types.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(service.Validation(msgBadBody))
		return
	}

	sub, err := h.subscribers.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusCreated, fmt.Sprintf("User with email %s has been subscribed.", sub.Email))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	var req types.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(service.Validation(msgBadBody))
		return
	}

	if err := h.subscribers.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusOK, "Unsubscribed successfully.")
}
