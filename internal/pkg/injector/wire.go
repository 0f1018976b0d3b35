//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	authdata "github.com/lk2023060901/yoga-studio-backend/internal/auth/data"
	authservice "github.com/lk2023060901/yoga-studio-backend/internal/auth/service"
	blogrefbiz "github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	blogrefdata "github.com/lk2023060901/yoga-studio-backend/internal/blogref/data"
	blogrefservice "github.com/lk2023060901/yoga-studio-backend/internal/blogref/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	dashboardbiz "github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	dashboarddata "github.com/lk2023060901/yoga-studio-backend/internal/dashboard/data"
	dashboardservice "github.com/lk2023060901/yoga-studio-backend/internal/dashboard/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/data"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	eventdata "github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	eventservice "github.com/lk2023060901/yoga-studio-backend/internal/event/service"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	gallerydata "github.com/lk2023060901/yoga-studio-backend/internal/gallery/data"
	galleryservice "github.com/lk2023060901/yoga-studio-backend/internal/gallery/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/seed"
	"github.com/lk2023060901/yoga-studio-backend/internal/server"
	studiobiz "github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
	studiodata "github.com/lk2023060901/yoga-studio-backend/internal/studio/data"
	studioservice "github.com/lk2023060901/yoga-studio-backend/internal/studio/service"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	testimonialdata "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/data"
	testimonialservice "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/service"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	userservice "github.com/lk2023060901/yoga-studio-backend/internal/user/service"
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	data.NewData,
	provideDB,
	provideRedisClient,
	provideAssets,
)

// Repository providers
var repositoryProviderSet = wire.NewSet(
	testimonialdata.NewTestimonialRepo,
	eventdata.NewEventRepo,
	gallerydata.NewImageRepo,
	gallerydata.NewVideoRepo,
	blogrefdata.NewBlogRefRepo,
	studiodata.NewStudioRepo,
	userdata.NewUserRepo,
	authdata.NewDenyList,
	dashboarddata.NewStateStore,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	provideSiteLinks,
	provideFeeds,
	provideTokenManager,
	testimonialbiz.NewTestimonialUseCase,
	eventbiz.NewEventUseCase,
	gallerybiz.NewGalleryUseCase,
	blogrefbiz.NewBlogRefUseCase,
	studiobiz.NewStudioUseCase,
	userbiz.NewUserUseCase,
	authbiz.NewSessionUseCase,
)

// Dashboard controller and the use cases behind its consumer interfaces
var dashboardProviderSet = wire.NewSet(
	dashboardbiz.NewController,
	wire.Bind(new(dashboardbiz.Sessions), new(*authbiz.SessionUseCase)),
	wire.Bind(new(dashboardbiz.Testimonials), new(*testimonialbiz.TestimonialUseCase)),
	wire.Bind(new(dashboardbiz.Events), new(*eventbiz.EventUseCase)),
	wire.Bind(new(dashboardbiz.Gallery), new(*gallerybiz.GalleryUseCase)),
)

// HTTP service providers
var httpServiceProviderSet = wire.NewSet(
	provideUploadLimit,
	provideServiceKey,
	provideSyncDefaults,
	authservice.NewAuthService,
	testimonialservice.NewTestimonialService,
	eventservice.NewEventService,
	galleryservice.NewGalleryService,
	blogrefservice.NewBlogRefService,
	studioservice.NewStudioService,
	userservice.NewUserService,
	dashboardservice.NewDashboardService,
	wire.Struct(new(server.Services), "*"),
	wire.Struct(new(server.AdminDeps), "*"),
)

// Server providers
var serverProviderSet = wire.NewSet(
	server.NewHTTPServer,
	provideSweeper,
)

// ProviderSet is the Wire provider set for the API server
var ProviderSet = wire.NewSet(
	dataProviderSet,
	repositoryProviderSet,
	useCaseProviderSet,
	dashboardProviderSet,
	httpServiceProviderSet,
	serverProviderSet,
)

// InitializeApp initializes the API server with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}

// InitializeSeeder wires the seed runner over the same data layer
func InitializeSeeder(config *conf.Config, log *logger.Logger) (*Seeder, func(), error) {
	wire.Build(
		dataProviderSet,
		testimonialdata.NewTestimonialRepo,
		eventdata.NewEventRepo,
		gallerydata.NewImageRepo,
		gallerydata.NewVideoRepo,
		studiodata.NewStudioRepo,
		userdata.NewUserRepo,
		provideSiteLinks,
		testimonialbiz.NewTestimonialUseCase,
		eventbiz.NewEventUseCase,
		gallerybiz.NewGalleryUseCase,
		studiobiz.NewStudioUseCase,
		userbiz.NewUserUseCase,
		wire.Bind(new(seed.TestimonialCreator), new(*testimonialbiz.TestimonialUseCase)),
		wire.Bind(new(seed.EventCreator), new(*eventbiz.EventUseCase)),
		wire.Bind(new(seed.GalleryCreator), new(*gallerybiz.GalleryUseCase)),
		wire.Bind(new(seed.StudioCreator), new(*studiobiz.StudioUseCase)),
		wire.Bind(new(seed.UserCreator), new(*userbiz.UserUseCase)),
		provideSeedRunner,
		newSeeder,
	)
	return nil, nil, nil
}
