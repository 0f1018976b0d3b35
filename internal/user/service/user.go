package service

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	"go.uber.org/zap"
)

// ServiceKeyHeader carries the provisioning credential
const ServiceKeyHeader = "X-Service-Key"

// ServiceKey is the privileged credential for user provisioning
type ServiceKey string

type UserService struct {
	uc     *biz.UserUseCase
	logger *logger.Logger
	key    ServiceKey
}

func NewUserService(uc *biz.UserUseCase, logger *logger.Logger, key ServiceKey) *UserService {
	return &UserService{uc: uc, logger: logger, key: key}
}

// RegisterRoutes mounts /users on r behind the service key. With no key
// configured nothing is mounted.
func (s *UserService) RegisterRoutes(r *gin.RouterGroup) bool {
	if s.key == "" {
		return false
	}
	g := r.Group("/users", RequireServiceKey(string(s.key), s.logger))
	g.GET("", s.ListUsers)
	g.POST("", s.CreateUser)
	g.DELETE("/:id", s.DeleteUser)
	return true
}

// RequireServiceKey compares the header against key in constant time
func RequireServiceKey(key string, log *logger.Logger) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(ServiceKeyHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			log.WithContext(c.Request.Context()).Warn("service key rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)
			response.ErrorWithCode(c, apperrors.ErrServiceKey)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *UserService) CreateUser(c *gin.Context) {
	var in biz.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := s.uc.CreateUser(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, user)
}

func (s *UserService) DeleteUser(c *gin.Context) {
	deleted, err := s.uc.DeleteUser(c.Request.Context(), c.Param("id"))
	content.DeleteResult(c, deleted, err)
}

func (s *UserService) ListUsers(c *gin.Context) {
	page, pageSize := content.ParsePage(c)
	result, err := s.uc.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}
