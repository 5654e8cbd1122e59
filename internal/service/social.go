package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// SocialService manages subscriptions, favorites and the shopping cart
type SocialService struct {
	social  store.SocialStore
	users   store.UserStore
	recipes store.RecipeStore
	guard   *RelationGuard
	views   *ViewBuilder
}

func NewSocialService(
	social store.SocialStore,
	users store.UserStore,
	recipes store.RecipeStore,
	guard *RelationGuard,
	views *ViewBuilder,
) *SocialService {
	return &SocialService{
		social:  social,
		users:   users,
		recipes: recipes,
		guard:   guard,
		views:   views,
	}
}

// create inserts a relation row after the guard check. A duplicate that
// slips past the check is reported the same way.
func (s *SocialService) create(ctx context.Context, kind RelationKind, userID, targetID uuid.UUID) error {
	if err := s.guard.CanCreate(ctx, kind, userID, targetID); err != nil {
		return err
	}
	if err := s.social.Create(ctx, kind, userID, targetID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.RecordRelationRejection(string(kind), "duplicate")
			return fmt.Errorf("%s: %w", kind, ErrDuplicate)
		}
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
	logging.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("user_id", userID.String()).
		Str("target_id", targetID.String()).
		Msg("created relation")
	return nil
}

func (s *SocialService) remove(ctx context.Context, kind RelationKind, userID, targetID uuid.UUID) error {
	if err := s.social.Delete(ctx, kind, userID, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s %s: %w", kind, targetID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil
}

// Subscribe makes userID follow authorID. A missing author is reported
// before the self-reference check.
func (s *SocialService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordRelationRejection(string(KindFollow), "not_found")
			return nil, notFound("user", authorID)
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if err := s.create(ctx, KindFollow, userID, authorID); err != nil {
		return nil, err
	}
	return s.subscriptionView(ctx, author, recipesLimit)
}

func (s *SocialService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	exists, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return fmt.Errorf("failed to load author: %w", err)
	}
	if !exists {
		return notFound("user", authorID)
	}
	return s.remove(ctx, KindFollow, userID, authorID)
}

// Subscriptions lists the authors userID follows with up to recipesLimit of
// their newest recipes each. A zero limit includes every recipe.
func (s *SocialService) Subscriptions(ctx context.Context, userID uuid.UUID, q *types.SubscriptionsQuery) (*types.ListResponse[types.SubscriptionView], error) {
	authors, total, err := s.social.FollowedAuthors(ctx, userID, store.Page{Offset: q.Offset(), Limit: q.Size()})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(ctx, &authors[i], q.RecipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return &types.ListResponse[types.SubscriptionView]{Count: total, Results: views}, nil
}

func (s *SocialService) subscriptionView(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionView, error) {
	recipes, total, err := s.recipes.List(ctx, store.RecipeFilter{
		AuthorID: &author.ID,
		Page:     store.Page{Limit: recipesLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	view := &types.SubscriptionView{
		UserView:     userView(author, true),
		Recipes:      make([]types.ShortRecipeView, 0, len(recipes)),
		RecipesCount: total,
	}
	for i := range recipes {
		view.Recipes = append(view.Recipes, ShortRecipeView(&recipes[i]))
	}
	return view, nil
}

// addRecipe puts recipeID into one of the user's recipe collections
func (s *SocialService) addRecipe(ctx context.Context, kind RelationKind, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error) {
	recipe, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordRelationRejection(string(kind), "not_found")
			return nil, notFound("recipe", recipeID)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if err := s.create(ctx, kind, userID, recipeID); err != nil {
		return nil, err
	}
	view := ShortRecipeView(recipe)
	return &view, nil
}

func (s *SocialService) removeRecipe(ctx context.Context, kind RelationKind, userID, recipeID uuid.UUID) error {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if !exists {
		return notFound("recipe", recipeID)
	}
	return s.remove(ctx, kind, userID, recipeID)
}

func (s *SocialService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error) {
	return s.addRecipe(ctx, KindFavorite, userID, recipeID)
}

func (s *SocialService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRecipe(ctx, KindFavorite, userID, recipeID)
}

func (s *SocialService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeView, error) {
	return s.addRecipe(ctx, KindShoppingCart, userID, recipeID)
}

func (s *SocialService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRecipe(ctx, KindShoppingCart, userID, recipeID)
}
