package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestSetupRouter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	images, err := storage.NewFileStore(t.TempDir(), "/media")
	require.NoError(t, err)

	cfg := &config.Config{
		Server:  config.ServerConfig{CORSOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicURL: "/media"},
	}
	engine, err := SetupRouter(cfg, api.Dependencies{
		DB:     db,
		Images: images,
		JWT:    config.JWTConfig{Secret: "test-secret", TTL: time.Hour},
	})
	require.NoError(t, err)

	for path, status := range map[string]int{
		"/health":       http.StatusOK,
		"/metrics":      http.StatusOK,
		"/api/tags":     http.StatusOK,
		"/api/recipes":  http.StatusOK,
		"/api/users/me": http.StatusUnauthorized,
		"/nowhere":      http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	engine.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
