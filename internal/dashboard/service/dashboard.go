package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authmw "github.com/lk2023060901/yoga-studio-backend/internal/auth/middleware"
	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// DashboardService 管理面板 HTTP 服务
type DashboardService struct {
	ctrl   *biz.Controller
	store  biz.StateStore
	logger *logger.Logger
}

func NewDashboardService(ctrl *biz.Controller, store biz.StateStore, logger *logger.Logger) *DashboardService {
	return &DashboardService{ctrl: ctrl, store: store, logger: logger}
}

// RegisterRoutes mounts GET /dashboard on public (it answers anonymous
// visitors with the login form) and the state actions on admin.
func (s *DashboardService) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/admin/dashboard", s.Mount)

	g := admin.Group("/dashboard")
	g.POST("/tab", s.SwitchTab)
	g.POST("/search", s.SetSearch)
	g.POST("/notice/dismiss", s.DismissNotice)
	g.POST("/reload", s.Reload)
	g.POST("/delete", s.RequestDelete)
	g.POST("/delete/confirm", s.ConfirmDelete)
	g.POST("/delete/cancel", s.CancelDelete)
}

func (s *DashboardService) Mount(c *gin.Context) {
	ctx := c.Request.Context()

	user := s.ctrl.Authenticate(ctx, authmw.TokenFromRequest(c))
	if user == nil {
		response.Success(c, biz.AnonymousView())
		return
	}

	st, err := s.store.Load(ctx, user.ID)
	if err != nil {
		s.logger.WithContext(ctx).Warn("dashboard state load failed, starting fresh", zap.Error(err))
		st = biz.NewState(user.ID)
	}
	view := s.ctrl.Open(ctx, user, st)
	s.save(ctx, st)
	response.Success(c, view)
}

// withState loads the caller's state, applies fn and saves the result
func (s *DashboardService) withState(c *gin.Context, fn func(ctx context.Context, st *biz.State) error) {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrSessionInvalid)
		return
	}
	ctx := c.Request.Context()

	st, err := s.store.Load(ctx, user.ID)
	if err != nil {
		s.logger.WithContext(ctx).Error("dashboard state load failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrServiceUnavail, "dashboard state")
		return
	}

	if err := fn(ctx, st); err != nil {
		s.save(ctx, st)
		response.HandleError(c, err)
		return
	}
	s.save(ctx, st)
	response.Success(c, s.ctrl.View(st, user))
}

func (s *DashboardService) save(ctx context.Context, st *biz.State) {
	if ctx.Err() != nil {
		return
	}
	if err := s.store.Save(ctx, st); err != nil {
		s.logger.WithContext(ctx).Warn("dashboard state save failed", zap.String("user_id", st.UserID), zap.Error(err))
	}
}

type tabRequest struct {
	Tab biz.Tab `json:"tab" binding:"required"`
}

func (s *DashboardService) SwitchTab(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s.withState(c, func(ctx context.Context, st *biz.State) error {
		return s.ctrl.SwitchTab(ctx, st, req.Tab)
	})
}

type searchRequest struct {
	Term string `json:"term"`
}

func (s *DashboardService) SetSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s.withState(c, func(_ context.Context, st *biz.State) error {
		s.ctrl.SetSearch(st, req.Term)
		return nil
	})
}

func (s *DashboardService) DismissNotice(c *gin.Context) {
	s.withState(c, func(_ context.Context, st *biz.State) error {
		s.ctrl.DismissNotice(st)
		return nil
	})
}

func (s *DashboardService) Reload(c *gin.Context) {
	s.withState(c, func(ctx context.Context, st *biz.State) error {
		s.ctrl.Reload(ctx, st)
		return nil
	})
}

type deleteRequest struct {
	Tab biz.Tab `json:"tab" binding:"required"`
	ID  int64   `json:"id" binding:"required,min=1"`
}

func (s *DashboardService) RequestDelete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s.withState(c, func(ctx context.Context, st *biz.State) error {
		return s.ctrl.RequestDelete(ctx, st, req.Tab, req.ID)
	})
}

func (s *DashboardService) ConfirmDelete(c *gin.Context) {
	s.withState(c, func(ctx context.Context, st *biz.State) error {
		_, err := s.ctrl.ConfirmDelete(ctx, st)
		return err
	})
}

func (s *DashboardService) CancelDelete(c *gin.Context) {
	s.withState(c, func(_ context.Context, st *biz.State) error {
		s.ctrl.CancelDelete(st)
		return nil
	})
}

// ReloadOnMutation reloads the admin's active tab after a non-GET handler
// answered 2xx. It runs after RequireSession. Dashboard actions reload on
// their own and are skipped.
func ReloadOnMutation(ctrl *biz.Controller, store biz.StateStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if strings.Contains(c.FullPath(), "/dashboard/") {
			return
		}
		user, ok := authmw.CurrentUser(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		st, err := store.Load(ctx, user.ID)
		if err != nil {
			log.WithContext(ctx).Warn("dashboard reload skipped", zap.Error(err))
			return
		}
		ctrl.Reload(ctx, st)
		if ctx.Err() != nil {
			return
		}
		if err := store.Save(ctx, st); err != nil {
			log.WithContext(ctx).Warn("dashboard state save failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
}
