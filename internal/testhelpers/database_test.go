package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
)

func TestSetupTestDBIsolated(t *testing.T) {
	first := SetupTestDB(t)
	second := SetupTestDB(t)

	CreateUser(t, first, "alice")

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeKeepsIngredientOrder(t *testing.T) {
	db := SetupTestDB(t)
	author := CreateUser(t, db, "chef")
	sugar := CreateIngredient(t, db, "sugar", "g")
	flour := CreateIngredient(t, db, "flour", "g")

	recipe := CreateRecipe(t, db, author, "cake", nil, Amount{flour, 200}, Amount{sugar, 50})

	var rows []models.RecipeIngredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, flour.ID, rows[0].IngredientID)
	assert.Equal(t, sugar.ID, rows[1].IngredientID)
}
