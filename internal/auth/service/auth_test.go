package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/middleware"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newRouter(t *testing.T, redisClient *redis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &userdata.UserPO{})
	repo := userdata.NewUserRepo(db)
	_, err := userbiz.NewUserUseCase(repo, logger.NewNop()).CreateUser(context.Background(),
		userbiz.UserInput{Name: "Owner", Email: "owner@studio.test", Password: "correct horse"})
	require.NoError(t, err)

	uc := biz.NewSessionUseCase(repo, biz.NewTokenManager("jwt-secret", "yoga-studio", time.Hour),
		data.NewMemoryDenyList(), logger.NewNop())

	r := gin.New()
	r.Use(middleware.Sessions(middleware.CookieOptions{Secret: "cookie-secret", TTL: time.Hour}))
	api := r.Group("/api")
	NewAuthService(uc, redisClient, logger.NewNop()).RegisterRoutes(api)
	api.GET("/admin/ping", middleware.RequireSession(uc), func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.String(http.StatusOK, user.Email)
	})
	return r
}

func signIn(r *gin.Engine, password string) *httptest.ResponseRecorder {
	body := `{"email":"owner@studio.test","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCookieSessionFlow(t *testing.T) {
	r := newRouter(t, nil)

	w := signIn(r, "correct horse")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner@studio.test", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// the old cookie still carries the revoked token
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerSessionAndStatus(t *testing.T) {
	r := newRouter(t, nil)

	w := signIn(r, "correct horse")
	require.Equal(t, http.StatusOK, w.Code)
	token := gjson.Get(w.Body.String(), "data.token").String()
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "data.authenticated").Bool())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "data.authenticated").Bool())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignInFailure(t *testing.T) {
	r := newRouter(t, nil)

	w := signIn(r, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.Empty(t, w.Result().Cookies())
}

func TestSignInIsRateLimited(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	r := newRouter(t, client)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, signIn(r, "wrong").Code, "attempt %d", i+1)
	}
	w := signIn(r, "correct horse")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
