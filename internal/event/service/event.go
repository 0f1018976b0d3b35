package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
)

// EventService 活动 HTTP 服务
type EventService struct {
	uc          *biz.EventUseCase
	logger      *logger.Logger
	uploadLimit content.UploadLimit
}

func NewEventService(uc *biz.EventUseCase, logger *logger.Logger, uploadLimit content.UploadLimit) *EventService {
	return &EventService{uc: uc, logger: logger, uploadLimit: uploadLimit}
}

func (s *EventService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/events", s.ListPublic)
	r.GET("/events/:id", s.Get)
}

func (s *EventService) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/events")
	g.GET("", s.List)
	g.POST("", s.Create)
	g.POST("/upload", s.Upload)
	g.POST("/sweep", s.Sweep)
	g.GET("/:id", s.Get)
	g.PATCH("/:id", s.Update)
	g.DELETE("/:id", s.Delete)
}

// ListPublic lists upcoming events unless past=true
func (s *EventService) ListPublic(c *gin.Context) {
	past, _ := strconv.ParseBool(c.Query("past"))
	s.list(c, biz.EventFilter{Past: &past})
}

// List lists every event; past=true|false narrows it
func (s *EventService) List(c *gin.Context) {
	var filter biz.EventFilter
	if raw := c.Query("past"); raw != "" {
		past, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "past must be true or false")
			return
		}
		filter.Past = &past
	}
	s.list(c, filter)
}

func (s *EventService) list(c *gin.Context, filter biz.EventFilter) {
	page, pageSize := content.ParsePage(c)
	result, err := s.uc.List(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EventService) Get(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	e, err := s.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}
	response.Success(c, e)
}

func (s *EventService) Create(c *gin.Context) {
	var in biz.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e, err := s.uc.Create(c.Request.Context(), in)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, e)
}

func (s *EventService) Update(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	var p biz.EventPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e, err := s.uc.Update(c.Request.Context(), id, p)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, e)
}

func (s *EventService) Delete(c *gin.Context) {
	id, ok := content.ParseID(c)
	if !ok {
		return
	}
	deleted, err := s.uc.Delete(c.Request.Context(), id)
	content.DeleteResult(c, deleted, err)
}

// Sweep runs the is_past maintenance on demand
func (s *EventService) Sweep(c *gin.Context) {
	n, err := s.uc.SweepPast(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}

func (s *EventService) Upload(c *gin.Context) {
	content.HandleUpload(c, s.uc.UploadAsset, s.uploadLimit)
}
