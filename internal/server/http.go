package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	authmw "github.com/lk2023060901/yoga-studio-backend/internal/auth/middleware"
	authservice "github.com/lk2023060901/yoga-studio-backend/internal/auth/service"
	blogrefservice "github.com/lk2023060901/yoga-studio-backend/internal/blogref/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	dashboardbiz "github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	dashboardservice "github.com/lk2023060901/yoga-studio-backend/internal/dashboard/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/data"
	eventservice "github.com/lk2023060901/yoga-studio-backend/internal/event/service"
	galleryservice "github.com/lk2023060901/yoga-studio-backend/internal/gallery/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/metrics"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
	studioservice "github.com/lk2023060901/yoga-studio-backend/internal/studio/service"
	testimonialservice "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/service"
	userservice "github.com/lk2023060901/yoga-studio-backend/internal/user/service"
	"go.uber.org/zap"
)

// Services groups every HTTP service mounted by the router
type Services struct {
	Auth         *authservice.AuthService
	Testimonials *testimonialservice.TestimonialService
	Events       *eventservice.EventService
	Gallery      *galleryservice.GalleryService
	Blog         *blogrefservice.BlogRefService
	Studio       *studioservice.StudioService
	Users        *userservice.UserService
	Dashboard    *dashboardservice.DashboardService
}

// AdminDeps are what the admin group's middleware needs
type AdminDeps struct {
	Sessions  *authbiz.SessionUseCase
	Dashboard *dashboardbiz.Controller
	State     dashboardbiz.StateStore
}

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPServer(config *conf.Config, log *logger.Logger, d *data.Data, admin AdminDeps, svc Services) *HTTPServer {
	router := NewRouter(config, log, d, admin, svc)

	return &HTTPServer{
		server: &http.Server{
			Addr:         config.Server.Addr(),
			Handler:      router,
			ReadTimeout:  config.Server.ReadTimeout,
			WriteTimeout: config.Server.WriteTimeout,
		},
		logger: log,
	}
}

// NewRouter assembles middleware and routes.
//
//	/health, /metrics
//	/api            public content, auth, dashboard mount
//	/api/admin      session-guarded CRUD and dashboard actions
//	/internal       user provisioning, only when a service key is configured
func NewRouter(config *conf.Config, log *logger.Logger, d *data.Data, admin AdminDeps, svc Services) *gin.Engine {
	switch config.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(config.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLogger(log))
	router.Use(metrics.GinMiddleware())
	router.Use(authmw.CORS())
	router.Use(authmw.Sessions(authmw.CookieOptions{
		Secret: config.Auth.SessionSecret,
		TTL:    config.Auth.SessionTTL,
		Secure: config.Auth.CookieSecure,
	}))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := d.HealthCheck(ctx)
		status := http.StatusOK
		if checks["database"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status": http.StatusText(status),
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	svc.Auth.RegisterRoutes(api)
	svc.Testimonials.RegisterPublicRoutes(api)
	svc.Events.RegisterPublicRoutes(api)
	svc.Gallery.RegisterPublicRoutes(api)
	svc.Blog.RegisterPublicRoutes(api)
	svc.Studio.RegisterPublicRoutes(api)

	adminGroup := api.Group("/admin",
		authmw.RequireSession(admin.Sessions),
		dashboardservice.ReloadOnMutation(admin.Dashboard, admin.State, log),
	)
	svc.Dashboard.RegisterRoutes(api, adminGroup)
	svc.Testimonials.RegisterAdminRoutes(adminGroup)
	svc.Events.RegisterAdminRoutes(adminGroup)
	svc.Gallery.RegisterAdminRoutes(adminGroup)
	svc.Blog.RegisterAdminRoutes(adminGroup)

	if !svc.Users.RegisterRoutes(router.Group("/internal")) {
		log.Warn("service key not set, user provisioning is not mounted")
	}

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, c.Request.URL.Path)
	})
	return router
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
