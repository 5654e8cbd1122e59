package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// imagePrefix is the object key prefix for recipe images
const imagePrefix = "recipes/images"

// RecipeService handles recipe operations
type RecipeService struct {
	recipes store.RecipeStore
	catalog store.CatalogStore
	users   store.UserStore
	images  storage.ImageStore
	views   *ViewBuilder
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(
	recipes store.RecipeStore,
	catalog store.CatalogStore,
	users store.UserStore,
	images storage.ImageStore,
	views *ViewBuilder,
) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		catalog: catalog,
		users:   users,
		images:  images,
		views:   views,
	}
}

// CreateRecipe stores a recipe authored by authorID
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error) {
	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.prepare(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	recipe.Image = image

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	logging.Ctx(ctx).Debug().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", authorID.String()).
		Msg("created recipe")

	return s.GetRecipe(ctx, &authorID, recipe.ID)
}

// UpdateRecipe applies the supplied scalar fields and replaces the tag and
// ingredient sets. Only the author or an admin may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeView, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if err := s.authorize(ctx, actorID, recipe); err != nil {
		return nil, err
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if err := s.prepare(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		return nil, err
	}
	if req.Image != nil {
		image, err := s.saveImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = image
	}

	if err := s.recipes.Update(ctx, recipe); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("recipe_id", id.String()).Msg("updated recipe")

	return s.GetRecipe(ctx, &actorID, id)
}

// DeleteRecipe removes a recipe with its associations, favorites and cart
// entries. Only the author or an admin may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, id uuid.UUID) error {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("recipe", id)
		}
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if err := s.authorize(ctx, actorID, recipe); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("recipe", id)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("recipe_id", id.String()).Msg("deleted recipe")
	return nil
}

// GetRecipe returns the recipe as seen by actor, which may be nil
func (s *RecipeService) GetRecipe(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*types.RecipeView, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return s.views.Recipe(ctx, actor, recipe)
}

// ListRecipes returns one page of recipes, newest first. The favorited and
// cart filters apply to the actor and are ignored for anonymous callers.
func (s *RecipeService) ListRecipes(ctx context.Context, actor *uuid.UUID, q *types.RecipeListQuery) (*types.ListResponse[types.RecipeView], error) {
	filter := store.RecipeFilter{
		TagSlugs: q.Tags,
		Page:     store.Page{Offset: q.Offset(), Limit: q.Size()},
	}
	if q.Author != "" {
		authorID, err := uuid.Parse(q.Author)
		if err != nil {
			return nil, validationError("author must be a user id")
		}
		filter.AuthorID = &authorID
	}
	if actor != nil {
		if q.IsFavorited != nil && *q.IsFavorited == 1 {
			filter.FavoritedBy = actor
		}
		if q.IsInShoppingCart != nil && *q.IsInShoppingCart == 1 {
			filter.InCartOf = actor
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	views, err := s.views.Recipes(ctx, actor, recipes)
	if err != nil {
		return nil, err
	}
	return &types.ListResponse[types.RecipeView]{Count: total, Results: views}, nil
}

// prepare validates scalar invariants and the referenced catalog ids, then
// sets the recipe's association rows in request order
func (s *RecipeService) prepare(ctx context.Context, recipe *models.Recipe, tagIDs []uint, amounts []types.IngredientAmount) error {
	if recipe.CookingTime < 1 {
		return validationError("cooking_time must be at least 1")
	}
	if len(amounts) == 0 {
		return validationError("at least one ingredient is required")
	}
	if len(tagIDs) == 0 {
		return validationError("at least one tag is required")
	}

	ingredientIDs := make([]uint, 0, len(amounts))
	seen := make(map[uint]bool, len(amounts))
	for _, a := range amounts {
		if a.Amount < 1 {
			return validationError("amount of ingredient %d must be at least 1", a.ID)
		}
		if seen[a.ID] {
			return validationError("ingredient %d is listed more than once", a.ID)
		}
		seen[a.ID] = true
		ingredientIDs = append(ingredientIDs, a.ID)
	}
	tagIDs = uniqueIDs(tagIDs)

	missing, err := s.catalog.MissingIngredientIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	if len(missing) > 0 {
		return notFound("ingredient", missing[0])
	}
	missing, err = s.catalog.MissingTagIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("failed to check tags: %w", err)
	}
	if len(missing) > 0 {
		return notFound("tag", missing[0])
	}

	recipe.Ingredients = make([]models.RecipeIngredient, len(amounts))
	for i, a := range amounts {
		recipe.Ingredients[i] = models.RecipeIngredient{IngredientID: a.ID, Amount: a.Amount}
	}
	recipe.Tags = make([]models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		recipe.Tags[i] = models.RecipeTag{TagID: id}
	}
	return nil
}

func (s *RecipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	img, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("%w: image: %v", ErrValidation, err)
	}
	url, err := s.images.Save(ctx, img.Key(imagePrefix), img.Data, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

// authorize allows the recipe's author and admins
func (s *RecipeService) authorize(ctx context.Context, actorID uuid.UUID, recipe *models.Recipe) error {
	if recipe.AuthorID == actorID {
		return nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("recipe %s belongs to another user: %w", recipe.ID, ErrForbidden)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
