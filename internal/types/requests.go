package types

// RecipeInput carries the recipe fields after the HTTP boundary has parsed
// the ingredient list. Nil pointers mean the field was not sent.
type RecipeInput struct {
	Title        *string
	Description  *string
	Ingredients  []string
	Instructions *string
	IsPureVeg    bool
}

// RecipeForm is the multipart or JSON body of a recipe create/update.
// Ingredients arrive as a JSON-encoded array string.
type RecipeForm struct {
	Title        *string `form:"title" json:"title"`
	Description  *string `form:"description" json:"description"`
	Ingredients  *string `form:"ingredients" json:"ingredients"`
	Instructions *string `form:"instructions" json:"instructions"`
	IsPureVeg    bool    `form:"isPureVeg" json:"isPureVeg"`
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EditProfileRequest represents the request body for a profile edit
type EditProfileRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	IsPureVeg          bool   `json:"ispureveg"`
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// SubscribeRequest is the body of subscribe and unsubscribe calls
type SubscribeRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the generic {"message": ...} reply
type MessageResponse struct {
	Message string `json:"message"`
}
