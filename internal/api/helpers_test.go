package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/validation"
)

const (
	testSecret = "test-secret"
	testImage  = "data:image/png;base64,iVBORw0KGgo="
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupAPI(t *testing.T, rdb redis.Cmdable) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterWithGin())

	db := testhelpers.SetupTestDB(t)
	images := &mocks.MockImageStore{}
	images.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("/media/recipes/images/test.png", nil)

	jwtCfg := config.JWTConfig{Secret: testSecret, TTL: time.Hour}
	router := gin.New()
	api.SetupAPI(router, api.Dependencies{
		DB:     db,
		Redis:  rdb,
		Images: images,
		JWT:    jwtCfg,
		Limits: config.RateLimitConfig{RecipeCreateLimit: 1, Window: time.Hour},
	})

	return &testAPI{
		router: router,
		db:     db,
		auth:   service.NewAuthService(store.NewUserStore(db), jwtCfg.Secret, jwtCfg.TTL),
	}
}

func (a *testAPI) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}

// do sends body as JSON with an optional token
func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func recipeBody(tags []uint, ingredients ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":         "porridge",
		"text":         "boil",
		"cooking_time": 10,
		"image":        testImage,
		"tags":         tags,
		"ingredients":  ingredients,
	}
}

func amount(id uint, n int) map[string]interface{} {
	return map[string]interface{}{"id": id, "amount": n}
}
