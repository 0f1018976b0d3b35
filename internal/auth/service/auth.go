package service

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/middleware"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// AuthService 会话 HTTP 服务
type AuthService struct {
	uc     *biz.SessionUseCase
	redis  *redis.Client
	logger *logger.Logger
}

// NewAuthService redisClient may be nil; sign-in is then not rate limited
func NewAuthService(uc *biz.SessionUseCase, redisClient *redis.Client, log *logger.Logger) *AuthService {
	return &AuthService{uc: uc, redis: redisClient, logger: log}
}

func (s *AuthService) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/auth")
	g.POST("/sign-in", middleware.LoginRateLimiter(s.redis, s.logger), s.SignIn)
	g.POST("/sign-out", s.SignOut)
	g.GET("/session", s.Session)
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn 管理员登录
// @Summary 管理员登录
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "登录信息"
// @Success 200 {object} biz.Session
// @Router /auth/sign-in [post]
func (s *AuthService) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sess, err := s.uc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.WithContext(c.Request.Context()).Warn("sign-in failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.HandleError(c, err)
		return
	}

	if err := middleware.SaveToken(c, sess.Token); err != nil {
		s.logger.WithContext(c.Request.Context()).Warn("failed to write session cookie", zap.Error(err))
	}
	response.Success(c, sess)
}

// SignOut 注销当前会话
// @Summary 注销
// @Tags auth
// @Router /auth/sign-out [post]
func (s *AuthService) SignOut(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if err := middleware.ClearToken(c); err != nil {
		s.logger.WithContext(c.Request.Context()).Warn("failed to clear session cookie", zap.Error(err))
	}
	if err := s.uc.SignOut(c.Request.Context(), token); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"signed_out": true})
}

// SessionResponse 会话状态
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *biz.UserInfo `json:"user,omitempty"`
}

// Session reports whether the request carries a live session; never 401
func (s *AuthService) Session(c *gin.Context) {
	user := s.uc.CurrentUser(c.Request.Context(), middleware.TokenFromRequest(c))
	response.Success(c, SessionResponse{Authenticated: user != nil, User: user})
}
