package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRecipeStoreCreateAndGet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewRecipeStore(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "chef")
	egg := testhelpers.CreateIngredient(t, db, "egg", "pcs")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	breakfast := testhelpers.CreateTag(t, db, "breakfast")

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        "pancakes",
		Text:        "mix and fry",
		CookingTime: 15,
		Ingredients: []models.RecipeIngredient{
			{IngredientID: flour.ID, Amount: 200},
			{IngredientID: egg.ID, Amount: 2},
		},
		Tags: []models.RecipeTag{{TagID: breakfast.ID}},
	}
	require.NoError(t, s.Create(ctx, recipe))
	require.NotEqual(t, uuid.Nil, recipe.ID)

	got, err := s.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "chef", got.Author.Username)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "flour", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
	assert.Equal(t, "egg", got.Ingredients[1].Ingredient.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Tag.Name)
}

func TestRecipeStoreGetMissing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	_, err := NewRecipeStore(db).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeStoreUpdateReplacesTags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewRecipeStore(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "chef")
	breakfast := testhelpers.CreateTag(t, db, "breakfast")
	vegan := testhelpers.CreateTag(t, db, "vegan")
	dinner := testhelpers.CreateTag(t, db, "dinner")
	oats := testhelpers.CreateIngredient(t, db, "oats", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "porridge",
		[]*models.Tag{breakfast, vegan}, testhelpers.Amount{Ingredient: oats, Amount: 80})

	recipe.Name = "evening porridge"
	recipe.Tags = []models.RecipeTag{{TagID: dinner.ID}}
	recipe.Ingredients = []models.RecipeIngredient{{IngredientID: oats.ID, Amount: 100}}
	require.NoError(t, s.Update(ctx, recipe))

	var tags []models.RecipeTag
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Find(&tags).Error)
	require.Len(t, tags, 1)
	assert.Equal(t, dinner.ID, tags[0].TagID)

	got, err := s.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening porridge", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 100, got.Ingredients[0].Amount)
}

func TestRecipeStoreUpdateMissing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	err := NewRecipeStore(db).Update(context.Background(), &models.Recipe{ID: uuid.New(), Name: "x", Text: "x", CookingTime: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeStoreDeleteCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewRecipeStore(db)
	social := NewSocialStore(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "chef")
	fan := testhelpers.CreateUser(t, db, "fan")
	tag := testhelpers.CreateTag(t, db, "lunch")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "soup",
		[]*models.Tag{tag}, testhelpers.Amount{Ingredient: salt, Amount: 5})
	keep := testhelpers.CreateRecipe(t, db, author, "bread", nil, testhelpers.Amount{Ingredient: salt, Amount: 3})

	require.NoError(t, social.Create(ctx, RelationFavorite, fan.ID, recipe.ID))
	require.NoError(t, social.Create(ctx, RelationShoppingCart, fan.ID, recipe.ID))
	require.NoError(t, social.Create(ctx, RelationShoppingCart, fan.ID, keep.ID))

	require.NoError(t, s.Delete(ctx, recipe.ID))

	for _, model := range []interface{}{
		&models.RecipeIngredient{}, &models.RecipeTag{}, &models.Favorite{}, &models.ShoppingCart{},
	} {
		var cnt int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&cnt).Error)
		assert.Zero(t, cnt, "%T", model)
	}

	var kept int64
	require.NoError(t, db.Model(&models.ShoppingCart{}).Where("recipe_id = ?", keep.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)

	assert.ErrorIs(t, s.Delete(ctx, recipe.ID), ErrNotFound)
}

func TestRecipeStoreListFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewRecipeStore(db)
	social := NewSocialStore(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	vegan := testhelpers.CreateTag(t, db, "vegan")
	dinner := testhelpers.CreateTag(t, db, "dinner")

	testhelpers.CreateRecipe(t, db, alice, "salad", []*models.Tag{vegan})
	steak := testhelpers.CreateRecipe(t, db, bob, "steak", []*models.Tag{dinner})
	stew := testhelpers.CreateRecipe(t, db, bob, "stew", []*models.Tag{vegan, dinner})

	require.NoError(t, social.Create(ctx, RelationFavorite, alice.ID, steak.ID))
	require.NoError(t, social.Create(ctx, RelationShoppingCart, alice.ID, stew.ID))

	names := func(recipes []models.Recipe) []string {
		var out []string
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	all, total, err := s.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.ElementsMatch(t, []string{"salad", "steak", "stew"}, names(all))

	byAuthor, _, err := s.List(ctx, RecipeFilter{AuthorID: &bob.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"steak", "stew"}, names(byAuthor))

	byTag, total, err := s.List(ctx, RecipeFilter{TagSlugs: []string{"vegan"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []string{"salad", "stew"}, names(byTag))

	favorited, _, err := s.List(ctx, RecipeFilter{FavoritedBy: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"steak"}, names(favorited))

	inCart, _, err := s.List(ctx, RecipeFilter{InCartOf: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"stew"}, names(inCart))

	paged, total, err := s.List(ctx, RecipeFilter{Page: Page{Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, paged, 2)
}

func TestRecipeStoreIngredientRowsInsertionOrder(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	s := NewRecipeStore(db)

	author := testhelpers.CreateUser(t, db, "chef")
	sugar := testhelpers.CreateIngredient(t, db, "sugar", "g")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	a := testhelpers.CreateRecipe(t, db, author, "a", nil, testhelpers.Amount{Ingredient: flour, Amount: 1})
	b := testhelpers.CreateRecipe(t, db, author, "b", nil, testhelpers.Amount{Ingredient: sugar, Amount: 2})

	rows, err := s.IngredientRows(context.Background(), []uuid.UUID{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "flour", rows[0].Ingredient.Name)
	assert.Equal(t, "sugar", rows[1].Ingredient.Name)

	count, err := s.CountByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
