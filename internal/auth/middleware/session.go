package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
)

const (
	// CookieName 会话 cookie 名称
	CookieName = "studio-session"

	sessionTokenKey = "token"
	contextUserKey  = "session_user"
)

// CookieOptions 会话 cookie 设置
type CookieOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Sessions installs the cookie session store. Without a secret it is a
// no-op and only bearer tokens work.
func Sessions(opts CookieOptions) gin.HandlerFunc {
	if opts.Secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(CookieName, store)
}

func session(c *gin.Context) (sessions.Session, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, false
	}
	return sessions.Default(c), true
}

// TokenFromRequest 优先读取 Authorization header，其次读取会话 cookie
func TokenFromRequest(c *gin.Context) string {
	if token, ok := biz.ExtractBearer(c.GetHeader("Authorization")); ok {
		return token
	}
	s, ok := session(c)
	if !ok {
		return ""
	}
	token, _ := s.Get(sessionTokenKey).(string)
	return token
}

// SaveToken stores token in the session cookie when cookies are enabled
func SaveToken(c *gin.Context, token string) error {
	s, ok := session(c)
	if !ok {
		return nil
	}
	s.Set(sessionTokenKey, token)
	return s.Save()
}

// ClearToken drops the session cookie
func ClearToken(c *gin.Context) error {
	s, ok := session(c)
	if !ok {
		return nil
	}
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// RequireSession 管理端认证中间件，注入当前用户与日志 user_id
func RequireSession(uc *biz.SessionUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := uc.CurrentUser(c.Request.Context(), TokenFromRequest(c))
		if user == nil {
			response.ErrorWithCode(c, apperrors.ErrSessionInvalid)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// CurrentUser 从上下文获取 RequireSession 注入的用户
func CurrentUser(c *gin.Context) (*biz.UserInfo, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*biz.UserInfo)
	return user, ok
}

// CORS 跨域中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
