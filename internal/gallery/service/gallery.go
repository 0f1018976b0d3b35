package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
)

// GalleryService 图库 HTTP 服务
type GalleryService struct {
	uc          *biz.GalleryUseCase
	logger      *logger.Logger
	uploadLimit content.UploadLimit
}

func NewGalleryService(uc *biz.GalleryUseCase, logger *logger.Logger, uploadLimit content.UploadLimit) *GalleryService {
	return &GalleryService{uc: uc, logger: logger, uploadLimit: uploadLimit}
}

func (s *GalleryService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/gallery", s.Page)
	r.GET("/gallery/images", s.ListImages)
	r.GET("/gallery/videos", s.ListVideos)
	r.GET("/gallery/categories", s.Categories)
}

func (s *GalleryService) RegisterAdminRoutes(r *gin.RouterGroup) {
	images := r.Group("/gallery/images")
	images.GET("", s.ListImages)
	images.POST("", s.CreateImage)
	images.POST("/upload", s.Upload)
	images.GET("/:id", s.GetImage)
	images.PATCH("/:id", s.UpdateImage)
	images.DELETE("/:id", s.DeleteImage)

	videos := r.Group("/gallery/videos")
	videos.GET("", s.ListVideos)
	videos.POST("", s.CreateVideo)
	videos.POST("/upload", s.Upload)
	videos.GET("/:id", s.GetVideo)
	videos.PATCH("/:id", s.UpdateVideo)
	videos.DELETE("/:id", s.DeleteVideo)
}

// Page renders the public gallery for imagePage, videoPage, imageCategory and videoCategory
func (s *GalleryService) Page(c *gin.Context) {
	q := biz.ParsePageQuery(c.Request.URL.Query())
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	page, err := s.uc.BuildPage(c.Request.Context(), q, pageSize)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, page)
}

func (s *GalleryService) Categories(c *gin.Context) {
	kind := biz.MediaKind(c.DefaultQuery("kind", string(biz.KindImage)))
	categories, err := s.uc.ListCategories(c.Request.Context(), kind)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"kind": kind, "categories": categories})
}

func (s *GalleryService) ListImages(c *gin.Context) {
	page, pageSize := content.ParsePage(c)
	result, err := s.uc.ListImages(c.Request.Context(), page, pageSize, c.Query("category"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *GalleryService) GetImage(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	g, err := s.uc.GetImage(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if g == nil {
		response.NotFound(c, "gallery image not found")
		return
	}
	response.Success(c, g)
}

func (s *GalleryService) CreateImage(c *gin.Context) {
	var in biz.ImageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	g, err := s.uc.CreateImage(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, g)
}

func (s *GalleryService) UpdateImage(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	var p biz.ImagePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	g, err := s.uc.UpdateImage(c.Request.Context(), id, p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, g)
}

func (s *GalleryService) DeleteImage(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	deleted, err := s.uc.DeleteImage(c.Request.Context(), id)
	content.DeleteResult(c, deleted, err)
}

func (s *GalleryService) ListVideos(c *gin.Context) {
	page, pageSize := content.ParsePage(c)
	result, err := s.uc.ListVideos(c.Request.Context(), page, pageSize, c.Query("category"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *GalleryService) GetVideo(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	v, err := s.uc.GetVideo(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if v == nil {
		response.NotFound(c, "gallery video not found")
		return
	}
	response.Success(c, v)
}

func (s *GalleryService) CreateVideo(c *gin.Context) {
	var in biz.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := s.uc.CreateVideo(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, v)
}

func (s *GalleryService) UpdateVideo(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	var p biz.VideoPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := s.uc.UpdateVideo(c.Request.Context(), id, p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, v)
}

func (s *GalleryService) DeleteVideo(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	deleted, err := s.uc.DeleteVideo(c.Request.Context(), id)
	content.DeleteResult(c, deleted, err)
}

func (s *GalleryService) Upload(c *gin.Context) {
	content.HandleUpload(c, s.uc.UploadAsset, s.uploadLimit)
}
