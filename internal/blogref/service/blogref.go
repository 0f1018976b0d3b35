package service

import (
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
)

// SyncDefaults 未在请求中指定时使用的同步来源
type SyncDefaults struct {
	Provider string
	Username string
}

// BlogRefService 博客引用 HTTP 服务
type BlogRefService struct {
	uc          *biz.BlogRefUseCase
	logger      *logger.Logger
	uploadLimit content.UploadLimit
	sync        SyncDefaults
}

func NewBlogRefService(uc *biz.BlogRefUseCase, logger *logger.Logger, uploadLimit content.UploadLimit, sync SyncDefaults) *BlogRefService {
	return &BlogRefService{uc: uc, logger: logger, uploadLimit: uploadLimit, sync: sync}
}

func (s *BlogRefService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/blog", s.List)
	r.GET("/blog/:slug", s.GetBySlug)
}

func (s *BlogRefService) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/blog")
	g.GET("", s.List)
	g.POST("", s.Create)
	g.POST("/upload", s.Upload)
	g.POST("/sync", s.Sync)
	g.GET("/:id", s.Get)
	g.PATCH("/:id", s.Update)
	g.DELETE("/:id", s.Delete)
}

func (s *BlogRefService) List(c *gin.Context) {
	page, pageSize := content.ParsePage(c)
	filter := biz.BlogRefFilter{Provider: c.Query("provider"), Tag: c.Query("tag")}
	result, err := s.uc.List(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *BlogRefService) GetBySlug(c *gin.Context) {
	b, err := s.uc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c, "post not found")
		return
	}
	response.Success(c, b)
}

func (s *BlogRefService) Get(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	b, err := s.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c, "post not found")
		return
	}
	response.Success(c, b)
}

func (s *BlogRefService) Create(c *gin.Context) {
	var in biz.BlogRefInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := s.uc.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, b)
}

func (s *BlogRefService) Update(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	var p biz.BlogRefPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := s.uc.Update(c.Request.Context(), id, p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, b)
}

func (s *BlogRefService) Delete(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	deleted, err := s.uc.Delete(c.Request.Context(), id)
	content.DeleteResult(c, deleted, err)
}

type syncRequest struct {
	Provider string `json:"provider"`
	Username string `json:"username"`
}

// Sync pulls the configured author's articles; the body may override both fields
func (s *BlogRefService) Sync(c *gin.Context) {
	var req syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if req.Provider == "" {
		req.Provider = s.sync.Provider
	}
	if req.Username == "" {
		req.Username = s.sync.Username
	}

	result, err := s.uc.SyncProvider(c.Request.Context(), req.Provider, req.Username)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *BlogRefService) Upload(c *gin.Context) {
	content.HandleUpload(c, s.uc.UploadAsset, s.uploadLimit)
}
