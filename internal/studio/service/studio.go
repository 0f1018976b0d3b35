package service

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
)

// StudioService 课程、常见问题与站点外链，只读
type StudioService struct {
	uc     *biz.StudioUseCase
	logger *logger.Logger
}

func NewStudioService(uc *biz.StudioUseCase, logger *logger.Logger) *StudioService {
	return &StudioService{uc: uc, logger: logger}
}

func (s *StudioService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/classes", s.ListClasses)
	r.GET("/faqs", s.ListFAQs)
	r.GET("/site", s.Site)
}

func (s *StudioService) ListClasses(c *gin.Context) {
	items, err := s.uc.ListClasses(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (s *StudioService) ListFAQs(c *gin.Context) {
	items, err := s.uc.ListFAQs(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// Site returns the booking and contact form links; empty links are sent as ""
func (s *StudioService) Site(c *gin.Context) {
	response.Success(c, s.uc.Links())
}
