package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeFixture struct {
	*testEnv
	author    *models.User
	breakfast *models.Tag
	vegan     *models.Tag
	dinner    *models.Tag
	oats      *models.Ingredient
	milk      *models.Ingredient
}

func setupRecipes(t *testing.T) *recipeFixture {
	t.Helper()
	env := setupServices(t)
	env.images.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/images/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, "image/png").Return("/media/recipes/images/test.png", nil)

	return &recipeFixture{
		testEnv:   env,
		author:    testhelpers.CreateUser(t, env.db, "author"),
		breakfast: testhelpers.CreateTag(t, env.db, "breakfast"),
		vegan:     testhelpers.CreateTag(t, env.db, "vegan"),
		dinner:    testhelpers.CreateTag(t, env.db, "dinner"),
		oats:      testhelpers.CreateIngredient(t, env.db, "oats", "g"),
		milk:      testhelpers.CreateIngredient(t, env.db, "milk", "ml"),
	}
}

func (f *recipeFixture) request() *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name:        "porridge",
		Text:        "boil",
		CookingTime: 10,
		Image:       testImage,
		Tags:        []uint{f.breakfast.ID, f.vegan.ID},
		Ingredients: []types.IngredientAmount{
			{ID: f.oats.ID, Amount: 80},
			{ID: f.milk.ID, Amount: 200},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipes(t)

	view, err := f.recipes.CreateRecipe(context.Background(), f.author.ID, f.request())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "porridge", view.Name)
	assert.Equal(t, "/media/recipes/images/test.png", view.Image)
	assert.Equal(t, f.author.ID, view.Author.ID)
	require.Len(t, view.Tags, 2)
	assert.Equal(t, "breakfast", view.Tags[0].Name)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, types.RecipeIngredientView{ID: f.oats.ID, Name: "oats", MeasurementUnit: "g", Amount: 80}, view.Ingredients[0])
	assert.False(t, view.IsFavorited)
	f.images.AssertNumberOfCalls(t, "Save", 1)
}

func TestCreateRecipeDeduplicatesTags(t *testing.T) {
	f := setupRecipes(t)
	req := f.request()
	req.Tags = []uint{f.vegan.ID, f.vegan.ID}

	view, err := f.recipes.CreateRecipe(context.Background(), f.author.ID, req)
	require.NoError(t, err)
	assert.Len(t, view.Tags, 1)
}

func TestCreateRecipeRejections(t *testing.T) {
	f := setupRecipes(t)

	cases := []struct {
		name   string
		mutate func(*types.CreateRecipeRequest)
		want   error
	}{
		{"zero cooking time", func(r *types.CreateRecipeRequest) { r.CookingTime = 0 }, service.ErrValidation},
		{"no ingredients", func(r *types.CreateRecipeRequest) { r.Ingredients = nil }, service.ErrValidation},
		{"no tags", func(r *types.CreateRecipeRequest) { r.Tags = nil }, service.ErrValidation},
		{"zero amount", func(r *types.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 }, service.ErrValidation},
		{"repeated ingredient", func(r *types.CreateRecipeRequest) { r.Ingredients[1].ID = r.Ingredients[0].ID }, service.ErrValidation},
		{"bad image", func(r *types.CreateRecipeRequest) { r.Image = "not-an-image" }, service.ErrValidation},
		{"unknown ingredient", func(r *types.CreateRecipeRequest) { r.Ingredients[0].ID = 9999 }, service.ErrNotFound},
		{"unknown tag", func(r *types.CreateRecipeRequest) { r.Tags = []uint{9999} }, service.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request()
			tc.mutate(req)
			_, err := f.recipes.CreateRecipe(context.Background(), f.author.ID, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	f.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRecipeImageFailure(t *testing.T) {
	env := setupServices(t)
	env.images.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))
	author := testhelpers.CreateUser(t, env.db, "author")
	tag := testhelpers.CreateTag(t, env.db, "snack")
	nuts := testhelpers.CreateIngredient(t, env.db, "nuts", "g")

	_, err := env.recipes.CreateRecipe(context.Background(), author.ID, &types.CreateRecipeRequest{
		Name: "trail mix", Text: "mix", CookingTime: 1, Image: testImage,
		Tags:        []uint{tag.ID},
		Ingredients: []types.IngredientAmount{{ID: nuts.ID, Amount: 30}},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrValidation)
}

func TestUpdateRecipeReplacesAssociations(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()

	created, err := f.recipes.CreateRecipe(ctx, f.author.ID, f.request())
	require.NoError(t, err)

	name := "supper"
	view, err := f.recipes.UpdateRecipe(ctx, f.author.ID, created.ID, &types.UpdateRecipeRequest{
		Name:        &name,
		Tags:        []uint{f.dinner.ID},
		Ingredients: []types.IngredientAmount{{ID: f.milk.ID, Amount: 300}},
	})
	require.NoError(t, err)

	assert.Equal(t, "supper", view.Name)
	assert.Equal(t, "boil", view.Text)
	assert.Equal(t, created.Image, view.Image)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Name)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, 300, view.Ingredients[0].Amount)

	var tagRows int64
	require.NoError(t, f.db.Model(&models.RecipeTag{}).Where("recipe_id = ?", created.ID).Count(&tagRows).Error)
	assert.Equal(t, int64(1), tagRows)
}

func TestUpdateRecipeRejections(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()

	created, err := f.recipes.CreateRecipe(ctx, f.author.ID, f.request())
	require.NoError(t, err)
	valid := func() *types.UpdateRecipeRequest {
		return &types.UpdateRecipeRequest{
			Tags:        []uint{f.dinner.ID},
			Ingredients: []types.IngredientAmount{{ID: f.oats.ID, Amount: 1}},
		}
	}

	_, err = f.recipes.UpdateRecipe(ctx, f.author.ID, uuid.New(), valid())
	assert.ErrorIs(t, err, service.ErrNotFound)

	stranger := testhelpers.CreateUser(t, f.db, "stranger")
	_, err = f.recipes.UpdateRecipe(ctx, stranger.ID, created.ID, valid())
	assert.ErrorIs(t, err, service.ErrForbidden)

	req := valid()
	req.Tags = []uint{4242}
	_, err = f.recipes.UpdateRecipe(ctx, f.author.ID, created.ID, req)
	assert.ErrorIs(t, err, service.ErrNotFound)

	zero := 0
	req = valid()
	req.CookingTime = &zero
	_, err = f.recipes.UpdateRecipe(ctx, f.author.ID, created.ID, req)
	assert.ErrorIs(t, err, service.ErrValidation)

	// failed updates leave the original tags in place
	view, err := f.recipes.GetRecipe(ctx, nil, created.ID)
	require.NoError(t, err)
	assert.Len(t, view.Tags, 2)

	admin := testhelpers.CreateAdmin(t, f.db, "admin")
	_, err = f.recipes.UpdateRecipe(ctx, admin.ID, created.ID, valid())
	assert.NoError(t, err)
}

func TestDeleteRecipe(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()

	created, err := f.recipes.CreateRecipe(ctx, f.author.ID, f.request())
	require.NoError(t, err)
	reader := testhelpers.CreateUser(t, f.db, "reader")
	_, err = f.social.AddFavorite(ctx, reader.ID, created.ID)
	require.NoError(t, err)
	_, err = f.social.AddToCart(ctx, reader.ID, created.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.recipes.DeleteRecipe(ctx, reader.ID, created.ID), service.ErrForbidden)
	require.NoError(t, f.recipes.DeleteRecipe(ctx, f.author.ID, created.ID))
	assert.ErrorIs(t, f.recipes.DeleteRecipe(ctx, f.author.ID, created.ID), service.ErrNotFound)

	_, err = f.recipes.GetRecipe(ctx, nil, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	for _, model := range []interface{}{&models.Favorite{}, &models.ShoppingCart{}, &models.RecipeIngredient{}, &models.RecipeTag{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Where("recipe_id = ?", created.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows remain", model)
	}

	// catalog entries outlive the recipe
	_, err = f.catalog.GetIngredient(ctx, f.oats.ID)
	assert.NoError(t, err)
}

func TestListRecipes(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()

	other := testhelpers.CreateUser(t, f.db, "other")
	testhelpers.CreateRecipe(t, f.db, f.author, "pancakes", []*models.Tag{f.breakfast},
		testhelpers.Amount{Ingredient: f.oats, Amount: 50})
	testhelpers.CreateRecipe(t, f.db, other, "curry", []*models.Tag{f.dinner, f.vegan},
		testhelpers.Amount{Ingredient: f.milk, Amount: 100})

	page, err := f.recipes.ListRecipes(ctx, nil, &types.RecipeListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)

	page, err = f.recipes.ListRecipes(ctx, nil, &types.RecipeListQuery{Author: other.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "curry", page.Results[0].Name)

	page, err = f.recipes.ListRecipes(ctx, nil, &types.RecipeListQuery{Tags: []string{"breakfast", "vegan"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)

	page, err = f.recipes.ListRecipes(ctx, nil, &types.RecipeListQuery{PageQuery: types.PageQuery{Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.Len(t, page.Results, 1)

	_, err = f.recipes.ListRecipes(ctx, nil, &types.RecipeListQuery{Author: "nope"})
	assert.ErrorIs(t, err, service.ErrValidation)
}
