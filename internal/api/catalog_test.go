package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestTagsAdminOnlyWrites(t *testing.T) {
	a := setupAPI(t, nil)
	user := testhelpers.CreateUser(t, a.db, "user")
	admin := testhelpers.CreateAdmin(t, a.db, "admin")
	body := map[string]string{"name": "Breakfast", "slug": "breakfast", "color": "#E26C2D"}

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/tags", body, "").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/tags", body, a.token(t, user)).Code)

	w := a.do(http.MethodPost, "/api/tags", body, a.token(t, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tag := decode[types.TagView](t, w)
	assert.Equal(t, "breakfast", tag.Slug)

	w = a.do(http.MethodGet, "/api/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.TagView](t, w), 1)

	w = a.do(http.MethodGet, "/api/tags/"+strconv.Itoa(int(tag.ID)), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/tags/abc", nil, "").Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/tags/"+strconv.Itoa(int(tag.ID)), nil, a.token(t, admin)).Code)
}

func TestIngredientsSearchAndDelete(t *testing.T) {
	a := setupAPI(t, nil)
	admin := testhelpers.CreateAdmin(t, a.db, "admin")
	token := a.token(t, admin)
	tag := testhelpers.CreateTag(t, a.db, "bread")
	yeast := testhelpers.CreateIngredient(t, a.db, "yeast", "g")
	testhelpers.CreateIngredient(t, a.db, "Yogurt", "ml")
	testhelpers.CreateIngredient(t, a.db, "salt", "g")
	testhelpers.CreateRecipe(t, a.db, admin, "loaf", []*models.Tag{tag},
		testhelpers.Amount{Ingredient: yeast, Amount: 7})

	w := a.do(http.MethodGet, "/api/ingredients?name=y", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.IngredientView](t, w), 2)

	w = a.do(http.MethodPost, "/api/ingredients", map[string]string{"name": "pepper", "measurement_unit": "g"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(http.MethodDelete, "/api/ingredients/"+strconv.Itoa(int(yeast.ID)), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}
