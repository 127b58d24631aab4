package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"echoboard/internal/config"
	"echoboard/internal/server"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
		CORSOrigins:    []string{"*"},
		AuthRateLimit:  100,
		AuthBurst:      100,
		FrontendURL:    "http://localhost:3000",
		StaticDir:      staticDir,
		AI:             config.AIConfig{Provider: "openai"},
	}
	r, err := server.NewRouter(cfg, db)
	require.NoError(t, err)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	// gin-swagger matches on RequestURI, which only the server sets.
	req.RequestURI = path
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(t, "")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/swagger/index.html").Code)
	// Empty body fails validation before any query.
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/login").Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, "")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/jwtcheck"},
		{http.MethodGet, "/projects"},
		{http.MethodPost, "/project"},
		{http.MethodDelete, "/project/abc/member/def"},
		{http.MethodGet, "/project/abc/task/def"},
		{http.MethodPost, "/ai/standup"},
		{http.MethodPost, "/uploads/presign"},
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(r, route.method, route.path).Code, route.path)
	}
}

func TestRouter_ServesFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	r := newTestRouter(t, dir)

	rec := serve(r, http.MethodGet, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = serve(r, http.MethodGet, "/projects/123/board")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")
}
