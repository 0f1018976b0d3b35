package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	blogrefdata "github.com/lk2023060901/yoga-studio-backend/internal/blogref/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	eventdata "github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	gallerydata "github.com/lk2023060901/yoga-studio-backend/internal/gallery/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/minio"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	studiodata "github.com/lk2023060901/yoga-studio-backend/internal/studio/data"
	testimonialdata "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/data"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"go.uber.org/zap"
)

// Data holds the shared resources. Redis and Objects are nil when the
// backing service is not configured or unreachable.
type Data struct {
	DB      *database.DB
	Redis   *redis.Client
	Objects *minio.Client
	Assets  *asset.Store
	Logger  *logger.Logger
}

// Models lists every persisted table
func Models() []interface{} {
	return []interface{}{
		&testimonialdata.TestimonialPO{},
		&eventdata.EventPO{},
		&gallerydata.GalleryImagePO{},
		&gallerydata.GalleryVideoPO{},
		&blogrefdata.BlogRefPO{},
		&studiodata.ClassPO{},
		&studiodata.FAQPO{},
		&userdata.UserPO{},
	}
}

// NewData opens the store, which is required, then redis and object
// storage, which degrade to nil with a logged error.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	// 数据库必须可用
	db, err := database.New(&config.Database, log.Named("database"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	d := &Data{DB: db, Logger: log}

	if config.Redis.Addr != "" {
		client, err := redis.New(&config.Redis, log.Named("redis"))
		if err != nil {
			log.Error("redis unavailable, falling back to in-process state", zap.Error(err))
		} else {
			d.Redis = client
		}
	}

	d.Objects = initObjects(config.Storage, log)
	if d.Objects != nil {
		d.Assets = asset.NewStore(d.Objects, asset.Config{
			Bucket:        config.Storage.Bucket,
			PublicBaseURL: config.Storage.PublicBaseURL,
			Prefix:        config.Storage.Prefix,
			MaxBytes:      config.Storage.MaxUploadBytes(),
		}, log)
	} else {
		d.Assets = asset.NewDisabled(log)
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		if d.Redis != nil {
			_ = d.Redis.Close()
		}
		if d.Objects != nil {
			_ = d.Objects.Close()
		}
		_ = db.Close()
	}
	return d, cleanup, nil
}

func initObjects(cfg conf.StorageConfig, log *logger.Logger) *minio.Client {
	if !cfg.Enabled() {
		return nil
	}

	mc := cfg.Config
	client, err := minio.NewClient(&mc, log.Named("minio").Logger)
	if err != nil {
		log.Error("object storage client failed, uploads are disabled", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx, cfg.Bucket, cfg.Prefix); err != nil {
		// 桶可能已由运维创建，上传仍可尝试
		log.Warn("ensure bucket failed", zap.String("bucket", cfg.Bucket), zap.Error(err))
	}
	return client
}

// HealthCheck pings the store and, when present, redis
func (d *Data) HealthCheck(ctx context.Context) map[string]string {
	out := map[string]string{"database": "ok"}
	if err := d.DB.HealthCheck(ctx); err != nil {
		out["database"] = err.Error()
	}
	switch {
	case d.Redis == nil:
		out["redis"] = "disabled"
	case d.Redis.Ping(ctx) != nil:
		out["redis"] = "unreachable"
	default:
		out["redis"] = "ok"
	}
	if d.Assets.Enabled() {
		out["storage"] = "ok"
	} else {
		out["storage"] = "disabled"
	}
	return out
}
