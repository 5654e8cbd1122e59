package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// IUserService defines the interface for user profile reads
type IUserService interface {
	ListUsers(ctx context.Context, actor *uuid.UUID, q *types.PageQuery) (*types.ListResponse[types.UserView], error)
	GetUser(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*types.UserView, error)
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// ICatalogService defines the interface for tag and ingredient operations
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.TagView, error)
	GetTag(ctx context.Context, id uint) (*types.TagView, error)
	CreateTag(ctx context.Context, req *types.TagRequest) (*types.TagView, error)
	UpdateTag(ctx context.Context, id uint, req *types.TagRequest) (*types.TagView, error)
	DeleteTag(ctx context.Context, id uint) error
	ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientView, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error)
	CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*types.IngredientView, error)
	DeleteIngredient(ctx context.Context, id uint) error
	ImportIngredients(ctx context.Context, r io.Reader) (ImportResult, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error)
	UpdateRecipe(ctx context.Context, actorID, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeView, error)
	DeleteRecipe(ctx context.Context, actorID, id uuid.UUID) error
	GetRecipe(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*types.RecipeView, error)
	ListRecipes(ctx context.Context, actor *uuid.UUID, q *types.RecipeListQuery) (*types.ListResponse[types.RecipeView], error)
}

// ISocialService defines the interface for subscriptions, favorites and the cart
type ISocialService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, q *types.SubscriptionsQuery) (*types.ListResponse[types.SubscriptionView], error)
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IShoppingListService defines the interface for the cart export
type IShoppingListService interface {
	Build(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
	Export(ctx context.Context, userID uuid.UUID) (string, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ ISocialService       = (*SocialService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
