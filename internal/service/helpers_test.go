package service_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testImage = "data:image/png;base64,iVBORw0KGgo="

type testEnv struct {
	db       *gorm.DB
	images   *mocks.MockImageStore
	auth     *service.AuthService
	users    *service.UserService
	catalog  *service.CatalogService
	recipes  *service.RecipeService
	social   *service.SocialService
	shopping *service.ShoppingListService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)

	userStore := store.NewUserStore(db)
	catalogStore := store.NewCatalogStore(db)
	recipeStore := store.NewRecipeStore(db)
	socialStore := store.NewSocialStore(db)
	views := service.NewViewBuilder(socialStore)
	images := &mocks.MockImageStore{}

	return &testEnv{
		db:       db,
		images:   images,
		auth:     service.NewAuthService(userStore, "test-secret", time.Hour),
		users:    service.NewUserService(userStore, views),
		catalog:  service.NewCatalogService(catalogStore),
		recipes:  service.NewRecipeService(recipeStore, catalogStore, userStore, images, views),
		social:   service.NewSocialService(socialStore, userStore, recipeStore, service.NewRelationGuard(socialStore), views),
		shopping: service.NewShoppingListService(socialStore, recipeStore),
	}
}
