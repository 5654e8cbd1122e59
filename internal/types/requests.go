package types

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

// PageQuery is the pagination part of a list query string
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DefaultPageSize applies when a list query names no limit
const DefaultPageSize = 6

// Offset returns the number of rows preceding the requested page
func (q PageQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Size()
}

// Size returns the requested page size or the default
func (q PageQuery) Size() int {
	if q.Limit <= 0 {
		return DefaultPageSize
	}
	return q.Limit
}

// RecipeListQuery filters the recipe list. Flags take 1 or 0.
type RecipeListQuery struct {
	PageQuery
	Author           string   `form:"author" binding:"omitempty,uuid"`
	Tags             []string `form:"tags"`
	IsFavorited      *int     `form:"is_favorited" binding:"omitempty,oneof=0 1"`
	IsInShoppingCart *int     `form:"is_in_shopping_cart" binding:"omitempty,oneof=0 1"`
}

// SubscriptionsQuery lists the caller's subscriptions
type SubscriptionsQuery struct {
	PageQuery
	RecipesLimit int `form:"recipes_limit" binding:"omitempty,min=0"`
}

// IngredientAmount references a catalog ingredient with a quantity
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,min=1"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image is a base64 data URI.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required,min=1"`
	Image       string             `json:"image" binding:"required"`
	Tags        []uint             `json:"tags" binding:"required,min=1"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Omitted scalar fields keep their value; tags and ingredients are replaced.
type UpdateRecipeRequest struct {
	Name        *string            `json:"name" binding:"omitempty,min=1,max=200"`
	Text        *string            `json:"text" binding:"omitempty,min=1"`
	CookingTime *int               `json:"cooking_time" binding:"omitempty,min=1"`
	Image       *string            `json:"image"`
	Tags        []uint             `json:"tags" binding:"required,min=1"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
}

type TagRequest struct {
	Name  string  `json:"name" binding:"required,max=200"`
	Slug  *string `json:"slug" binding:"omitempty,max=200"`
	Color string  `json:"color" binding:"omitempty,hexcolor"`
}

type IngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}
