package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
)

// Dependencies are the backing resources the API is built from
type Dependencies struct {
	DB     *gorm.DB
	Redis  redis.Cmdable // nil disables rate limiting
	Images storage.ImageStore
	JWT    config.JWTConfig
	Limits config.RateLimitConfig
}

// SetupAPI builds the services and registers every route under /api
func SetupAPI(router *gin.Engine, deps Dependencies) {
	userStore := store.NewUserStore(deps.DB)
	catalogStore := store.NewCatalogStore(deps.DB)
	recipeStore := store.NewRecipeStore(deps.DB)
	socialStore := store.NewSocialStore(deps.DB)

	views := service.NewViewBuilder(socialStore)
	authService := service.NewAuthService(userStore, deps.JWT.Secret, deps.JWT.TTL)
	userService := service.NewUserService(userStore, views)
	catalogService := service.NewCatalogService(catalogStore)
	recipeService := service.NewRecipeService(recipeStore, catalogStore, userStore, deps.Images, views)
	socialService := service.NewSocialService(socialStore, userStore, recipeStore, service.NewRelationGuard(socialStore), views)
	shoppingService := service.NewShoppingListService(socialStore, recipeStore)

	var createLimiter *middleware.RateLimiter
	if deps.Redis != nil && deps.Limits.RecipeCreateLimit > 0 {
		createLimiter = middleware.NewRecipeCreationRateLimiter(deps.Redis, deps.Limits)
	}

	router.GET("/health", NewHealthHandler(deps.DB).Health)

	v1 := router.Group("/api")
	{
		NewAuthHandler(authService).RegisterRoutes(v1)
		NewUserHandler(authService, userService, socialService).RegisterRoutes(v1)
		NewCatalogHandler(catalogService, authService, userService).RegisterRoutes(v1)
		NewRecipeHandler(recipeService, socialService, shoppingService, authService, createLimiter).RegisterRoutes(v1)
	}
}
