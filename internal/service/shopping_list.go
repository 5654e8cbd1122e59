package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
)

// ShoppingListHeader is the first line of every exported list
const ShoppingListHeader = "Список продуктов:"

// ShoppingListItem is the total amount of one ingredient across a cart
type ShoppingListItem struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// Aggregate sums amounts per ingredient id. Items come out in the order
// each ingredient is first seen in rows.
func Aggregate(rows []models.RecipeIngredient) []ShoppingListItem {
	items := make([]ShoppingListItem, 0, len(rows))
	index := make(map[uint]int, len(rows))
	for _, row := range rows {
		if i, ok := index[row.IngredientID]; ok {
			items[i].TotalAmount += row.Amount
			continue
		}
		index[row.IngredientID] = len(items)
		items = append(items, ShoppingListItem{
			IngredientID:    row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			TotalAmount:     row.Amount,
		})
	}
	return items
}

// RenderShoppingList formats items as the plain-text export
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "\n%s (%s) - %d", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}

// ShoppingListService aggregates the ingredients of a user's cart
type ShoppingListService struct {
	social  store.SocialStore
	recipes store.RecipeStore
}

func NewShoppingListService(social store.SocialStore, recipes store.RecipeStore) *ShoppingListService {
	return &ShoppingListService{social: social, recipes: recipes}
}

// Build walks the cart in the order recipes were added and each recipe's
// ingredients in their stored order. An empty cart yields an empty list.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	recipeIDs, err := s.social.CartRecipeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	if len(recipeIDs) == 0 {
		return []ShoppingListItem{}, nil
	}

	rows, err := s.recipes.IngredientRows(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}

	byRecipe := make(map[uuid.UUID][]models.RecipeIngredient, len(recipeIDs))
	for _, row := range rows {
		byRecipe[row.RecipeID] = append(byRecipe[row.RecipeID], row)
	}
	ordered := make([]models.RecipeIngredient, 0, len(rows))
	for _, id := range recipeIDs {
		ordered = append(ordered, byRecipe[id]...)
	}
	return Aggregate(ordered), nil
}

// Export builds and renders the user's shopping list
func (s *ShoppingListService) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	items, err := s.Build(ctx, userID)
	if err != nil {
		return "", err
	}
	metrics.RecordShoppingListExport(len(items))
	logging.Ctx(ctx).Debug().
		Str("user_id", userID.String()).
		Int("items", len(items)).
		Msg("exported shopping list")
	return RenderShoppingList(items), nil
}
