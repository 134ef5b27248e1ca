package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const (
	msgRecipeNotFound     = "Recipe not found."
	msgRefresh            = "Unable to perform action please refresh the page."
	msgInvalidIngredients = "Invalid ingredients format. Should be a JSON array."
)

// RecipeHandler serves /api/recipes
type RecipeHandler struct {
	recipes service.IRecipeService
	auth    middleware.TokenValidator
	limits  RateLimiters
}

func NewRecipeHandler(recipes service.IRecipeService, auth middleware.TokenValidator, limits RateLimiters) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		auth:    auth,
		limits:  limits,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.auth)
	modify := h.limits.modification()

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/liked", authed, h.ListLikedRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/dashboard", authed, h.UserRecipes)
		recipes.POST("", authed, h.limits.creation(), h.CreateRecipe)
		recipes.PATCH("/:id", authed, modify, h.UpdateRecipe)
		recipes.DELETE("/:id", authed, modify, h.DeleteRecipe)
		recipes.PATCH("/:id/like", authed, modify, h.LikeRecipe)
		recipes.PATCH("/:id/unlike", authed, modify, h.UnlikeRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, msgRecipeNotFound)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// UserRecipes lists the recipes created by the user in :id
func (h *RecipeHandler) UserRecipes(c *gin.Context) {
	ownerID, ok := paramID(c, "User not found.")
	if !ok {
		return
	}
	recipes, err := h.recipes.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) ListLikedRecipes(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	recipes, err := h.recipes.ListLikedBy(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}

	input, err := bindRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	thumbnail, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer closeFile()

	recipe, err := h.recipes.Create(c.Request.Context(), userID, input, thumbnail)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramID(c, msgRecipeNotFound)
	if !ok {
		return
	}

	input, err := bindRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	thumbnail, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer closeFile()

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, input, thumbnail)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramID(c, msgRecipeNotFound)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("Recipe %s deleted successfully.", id))
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramID(c, msgRefresh)
	if !ok {
		return
	}

	if err := h.recipes.Like(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusOK, "Added to favourites.")
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramID(c, msgRefresh)
	if !ok {
		return
	}

	if err := h.recipes.Unlike(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, http.StatusOK, "Removed from favourites.")
}

// bindRecipe reads a multipart or JSON recipe body and decodes the
// ingredient list, which always arrives as a JSON array string.
func bindRecipe(c *gin.Context) (types.RecipeInput, error) {
	var form types.RecipeForm
	if err := c.ShouldBind(&form); err != nil {
		return types.RecipeInput{}, service.Validation(msgBadBody)
	}

	input := types.RecipeInput{
		Title:        form.Title,
		Description:  form.Description,
		Instructions: form.Instructions,
		IsPureVeg:    form.IsPureVeg,
	}
	if form.Ingredients != nil && *form.Ingredients != "" {
		ingredients, err := parseIngredients(*form.Ingredients)
		if err != nil {
			return types.RecipeInput{}, err
		}
		input.Ingredients = ingredients
	}
	return input, nil
}

func parseIngredients(raw string) ([]string, error) {
	ingredients := []string{}
	if err := json.Unmarshal([]byte(raw), &ingredients); err != nil || ingredients == nil {
		return nil, service.Validation(msgInvalidIngredients)
	}
	return ingredients, nil
}
