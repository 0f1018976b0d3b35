package injector

import (
	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	blogrefbiz "github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	blogrefdata "github.com/lk2023060901/yoga-studio-backend/internal/blogref/data"
	blogrefservice "github.com/lk2023060901/yoga-studio-backend/internal/blogref/service"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/data"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/lk2023060901/yoga-studio-backend/internal/seed"
	studiobiz "github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
	userservice "github.com/lk2023060901/yoga-studio-backend/internal/user/service"
)

// Data layer helpers

func provideDB(d *data.Data) *database.DB {
	return d.DB
}

// provideRedisClient may return nil; consumers fall back to in-process state
func provideRedisClient(d *data.Data) *redis.Client {
	return d.Redis
}

func provideAssets(d *data.Data) *asset.Store {
	return d.Assets
}

// Configuration slices

func provideUploadLimit(config *conf.Config) content.UploadLimit {
	return content.UploadLimit(config.Storage.MaxUploadBytes())
}

func provideServiceKey(config *conf.Config) userservice.ServiceKey {
	return userservice.ServiceKey(config.Auth.ServiceKey)
}

func provideSiteLinks(config *conf.Config) studiobiz.SiteLinks {
	return studiobiz.SiteLinks{
		BookingFormURL: config.Site.BookingFormURL,
		ContactFormURL: config.Site.ContactFormURL,
	}
}

func provideSyncDefaults(config *conf.Config) blogrefservice.SyncDefaults {
	return blogrefservice.SyncDefaults{Provider: config.Blog.Provider, Username: config.Blog.Username}
}

func provideFeeds(config *conf.Config) []blogrefbiz.Feed {
	return []blogrefbiz.Feed{blogrefdata.NewDevToFeed(config.Blog.FeedBaseURL, config.Blog.Timeout)}
}

func provideTokenManager(config *conf.Config) *authbiz.TokenManager {
	return authbiz.NewTokenManager(config.Auth.JWTSecret, config.Auth.JWTIssuer, config.Auth.SessionTTL)
}

// provideSweeper only hands the locker over when redis is up; a nil
// *redis.Client inside the interface would not read as nil.
func provideSweeper(uc *eventbiz.EventUseCase, client *redis.Client, config *conf.Config, log *logger.Logger) *eventbiz.Sweeper {
	var locker eventbiz.Locker
	if client != nil {
		locker = client
	}
	return eventbiz.NewSweeper(uc, locker, config.Maintenance.SweepInterval, log)
}

func provideSeedRunner(
	testimonials seed.TestimonialCreator,
	events seed.EventCreator,
	gallery seed.GalleryCreator,
	studio seed.StudioCreator,
	users seed.UserCreator,
	config *conf.Config,
	log *logger.Logger,
) *seed.Runner {
	return seed.NewRunner(testimonials, events, gallery, studio, users, config.Seed.Workers, log)
}
