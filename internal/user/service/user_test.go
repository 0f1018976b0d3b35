package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"github.com/stretchr/testify/assert"
)

func newRouter(t *testing.T, key ServiceKey) (*gin.Engine, bool) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t, &data.UserPO{})
	svc := NewUserService(biz.NewUserUseCase(data.NewUserRepo(db), logger.NewNop()), logger.NewNop(), key)

	r := gin.New()
	mounted := svc.RegisterRoutes(r.Group("/internal"))
	return r, mounted
}

func TestServiceKeyGuard(t *testing.T) {
	r, mounted := newRouter(t, "s3cret")
	assert.True(t, mounted)

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing", "", http.StatusForbidden},
		{"wrong", "s3cre", http.StatusForbidden},
		{"valid", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/internal/users", nil)
			if tt.key != "" {
				req.Header.Set(ServiceKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreateUserOverHTTP(t *testing.T) {
	r, _ := newRouter(t, "s3cret")

	body := `{"name":"Owner","email":"owner@studio.test","password":"long enough"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ServiceKeyHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"owner@studio.test"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestNotMountedWithoutKey(t *testing.T) {
	r, mounted := newRouter(t, "")
	assert.False(t, mounted)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal/users", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
