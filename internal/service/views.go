package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ViewBuilder turns models into response views for an acting user. A nil
// actor is anonymous and sees every derived flag as false.
type ViewBuilder struct {
	social store.SocialStore
}

func NewViewBuilder(social store.SocialStore) *ViewBuilder {
	return &ViewBuilder{social: social}
}

func (v *ViewBuilder) among(ctx context.Context, rel store.Relation, actor *uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if actor == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return v.social.TargetsAmong(ctx, rel, *actor, ids)
}

// Users builds user views, marking the authors actor follows
func (v *ViewBuilder) Users(ctx context.Context, actor *uuid.UUID, users []models.User) ([]types.UserView, error) {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := v.among(ctx, store.RelationFollow, actor, ids)
	if err != nil {
		return nil, err
	}
	views := make([]types.UserView, len(users))
	for i := range users {
		views[i] = userView(&users[i], followed[users[i].ID])
	}
	return views, nil
}

func (v *ViewBuilder) User(ctx context.Context, actor *uuid.UUID, user *models.User) (*types.UserView, error) {
	views, err := v.Users(ctx, actor, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Recipes builds full recipe views. Recipes must have their author,
// ingredients and tags loaded.
func (v *ViewBuilder) Recipes(ctx context.Context, actor *uuid.UUID, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	seen := make(map[uuid.UUID]bool, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	favorited, err := v.among(ctx, store.RelationFavorite, actor, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := v.among(ctx, store.RelationShoppingCart, actor, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := v.among(ctx, store.RelationFollow, actor, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		view := types.RecipeView{
			ID:               r.ID,
			Tags:             make([]types.TagView, 0, len(r.Tags)),
			Author:           userView(&r.Author, followed[r.AuthorID]),
			Ingredients:      make([]types.RecipeIngredientView, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		}
		for _, rt := range r.Tags {
			view.Tags = append(view.Tags, TagView(&rt.Tag))
		}
		for _, ri := range r.Ingredients {
			view.Ingredients = append(view.Ingredients, types.RecipeIngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		views[i] = view
	}
	return views, nil
}

func (v *ViewBuilder) Recipe(ctx context.Context, actor *uuid.UUID, recipe *models.Recipe) (*types.RecipeView, error) {
	views, err := v.Recipes(ctx, actor, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func userView(u *models.User, subscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func ShortRecipeView(r *models.Recipe) types.ShortRecipeView {
	return types.ShortRecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func TagView(t *models.Tag) types.TagView {
	view := types.TagView{ID: t.ID, Name: t.Name, Color: t.Color}
	if t.Slug != nil {
		view.Slug = *t.Slug
	}
	return view
}

func IngredientView(i *models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
