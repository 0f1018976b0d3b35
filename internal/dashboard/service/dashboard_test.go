package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	authdata "github.com/lk2023060901/yoga-studio-backend/internal/auth/data"
	authmw "github.com/lk2023060901/yoga-studio-backend/internal/auth/middleware"
	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/data"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	eventdata "github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	gallerydata "github.com/lk2023060901/yoga-studio-backend/internal/gallery/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	testimonialdata "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/data"
	testimonialsvc "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type harness struct {
	router *gin.Engine
	store  biz.StateStore
	token  string
	userID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	db := testutil.NewDB(t, &userdata.UserPO{}, &testimonialdata.TestimonialPO{}, &eventdata.EventPO{},
		&gallerydata.GalleryImagePO{}, &gallerydata.GalleryVideoPO{})
	users := userdata.NewUserRepo(db)
	owner, err := userbiz.NewUserUseCase(users, log).CreateUser(context.Background(),
		userbiz.UserInput{Name: "Owner", Email: "owner@studio.test", Password: "correct horse"})
	require.NoError(t, err)

	tokens := authbiz.NewTokenManager("jwt-secret", "yoga-studio", time.Hour)
	sessions := authbiz.NewSessionUseCase(users, tokens, authdata.NewMemoryDenyList(), log)
	token, _, err := tokens.Issue(owner.ID, owner.Email)
	require.NoError(t, err)

	assets := testutil.NewAssetStore(&testutil.FakeObjects{})
	testimonials := testimonialbiz.NewTestimonialUseCase(testimonialdata.NewTestimonialRepo(db), assets, log)
	events := eventbiz.NewEventUseCase(eventdata.NewEventRepo(db), assets, log)
	gallery := gallerybiz.NewGalleryUseCase(gallerydata.NewImageRepo(db), gallerydata.NewVideoRepo(db), assets, log)

	ctrl := biz.NewController(sessions, testimonials, events, gallery, log)
	store := data.NewMemoryStateStore()

	r := gin.New()
	api := r.Group("/api")
	admin := api.Group("/admin", authmw.RequireSession(sessions), ReloadOnMutation(ctrl, store, log))
	NewDashboardService(ctrl, store, log).RegisterRoutes(api, admin)
	testimonialsvc.NewTestimonialService(testimonials, log, 1<<20).RegisterAdminRoutes(admin)

	return &harness{router: r, store: store, token: token, userID: owner.ID}
}

func (h *harness) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestMountAnswersAnonymousVisitors(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/admin/dashboard", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "data.authenticated").Bool())
	assert.Equal(t, "/api/auth/sign-in", gjson.Get(w.Body.String(), "data.login.action").String())

	w = h.do(http.MethodPost, "/api/admin/dashboard/reload", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMutationReloadsActiveTab(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/admin/dashboard", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "data.authenticated").Bool())
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "data.total").Int())

	w = h.do(http.MethodPost, "/api/admin/testimonials", `{"name":"Maya","quote":"Calmer every week.","rating":5}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	st, err := h.store.Load(context.Background(), h.userID)
	require.NoError(t, err)
	require.Len(t, st.Rows[biz.TabTestimonials], 1)
	assert.Equal(t, "Maya", st.Rows[biz.TabTestimonials][0].Title)

	w = h.do(http.MethodPost, "/api/admin/testimonials", `{"name":"","quote":"x","rating":5}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOverHTTP(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodPost, "/api/admin/testimonials", `{"name":"Maya","quote":"Calmer every week.","rating":5}`, true)

	w := h.do(http.MethodGet, "/api/admin/dashboard", "", true)
	id := gjson.Get(w.Body.String(), "data.rows.0.id").Int()
	require.NotZero(t, id)

	w = h.do(http.MethodPost, "/api/admin/dashboard/delete", `{"tab":"testimonials","id":`+gjson.Get(w.Body.String(), "data.rows.0.id").Raw+`}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maya", gjson.Get(w.Body.String(), "data.pending_delete.display.title").String())

	w = h.do(http.MethodPost, "/api/admin/dashboard/delete/confirm", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "data.pending_delete").Exists())
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "data.total").Int())

	w = h.do(http.MethodPost, "/api/admin/dashboard/tab", `{"tab":"blog"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
