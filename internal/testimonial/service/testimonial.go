package service

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	"github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
)

// TestimonialService 评价 HTTP 服务
type TestimonialService struct {
	uc          *biz.TestimonialUseCase
	logger      *logger.Logger
	uploadLimit content.UploadLimit
}

func NewTestimonialService(uc *biz.TestimonialUseCase, logger *logger.Logger, uploadLimit content.UploadLimit) *TestimonialService {
	return &TestimonialService{uc: uc, logger: logger, uploadLimit: uploadLimit}
}

// RegisterPublicRoutes 公开页面读取
func (s *TestimonialService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/testimonials", s.List)
}

// RegisterAdminRoutes 后台 CRUD，调用方负责鉴权
func (s *TestimonialService) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/testimonials")
	g.GET("", s.List)
	g.POST("", s.Create)
	g.POST("/upload", s.Upload)
	g.GET("/:id", s.Get)
	g.PATCH("/:id", s.Update)
	g.DELETE("/:id", s.Delete)
}

func (s *TestimonialService) List(c *gin.Context) {
	page, pageSize := content.ParsePage(c)
	result, err := s.uc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *TestimonialService) Get(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	t, err := s.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c, "testimonial not found")
		return
	}
	response.Success(c, t)
}

func (s *TestimonialService) Create(c *gin.Context) {
	var in biz.TestimonialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := s.uc.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, t)
}

func (s *TestimonialService) Update(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	var p biz.TestimonialPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := s.uc.Update(c.Request.Context(), id, p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, t)
}

func (s *TestimonialService) Delete(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	deleted, err := s.uc.Delete(c.Request.Context(), id)
	content.DeleteResult(c, deleted, err)
}

func (s *TestimonialService) Upload(c *gin.Context) {
	content.HandleUpload(c, s.uc.UploadAsset, s.uploadLimit)
}
