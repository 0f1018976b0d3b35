package asset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/metrics"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/minio"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/retry"
	"go.uber.org/zap"
)

// ErrDisabled is returned by Upload when object storage is not configured
var ErrDisabled = errors.New("object storage is not configured")

// ObjectStore is the subset of the object storage client the asset store needs
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string) error
}

type Config struct {
	Bucket        string
	PublicBaseURL string
	Prefix        string
	MaxBytes      int64
}

// Store manages images and thumbnails uploaded by the admin. Only URLs under
// PublicBaseURL are considered owned; anything else is never deleted.
type Store struct {
	objects ObjectStore
	config  Config
	baseURL string
	logger  *logger.Logger
	retry   retry.Policy
	now     func() time.Time
}

// NewStore builds a store. A nil objects client yields a disabled store.
func NewStore(objects ObjectStore, cfg Config, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		objects: objects,
		config:  cfg,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  log.Named("asset"),
		retry:   retry.DefaultPolicy,
		now:     time.Now,
	}
}

// NewDisabled returns a store that owns nothing and rejects uploads
func NewDisabled(log *logger.Logger) *Store {
	return NewStore(nil, Config{}, log)
}

// Enabled reports whether uploads can succeed
func (s *Store) Enabled() bool {
	return s.objects != nil && s.baseURL != "" && s.config.Bucket != ""
}

// Upload stores data under a fresh key and returns its public URL.
// Every failure is an AssetUploadError so callers can fall back to a pasted URL.
func (s *Store) Upload(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if !s.Enabled() {
		metrics.AssetOperations.WithLabelValues("upload", "disabled").Inc()
		return "", apperrors.NewAssetUploadError(ErrDisabled)
	}
	if len(data) == 0 {
		return "", apperrors.NewValidationError("file", "is required")
	}
	if s.config.MaxBytes > 0 && int64(len(data)) > s.config.MaxBytes {
		return "", apperrors.New(apperrors.ErrUploadTooLarge)
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	key := s.newKey(fileName, mimeType)

	err := s.retry.Do(ctx, "asset.upload", func(ctx context.Context) error {
		_, err := s.objects.PutObject(ctx, s.config.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  mimeType,
			CacheControl: "public, max-age=31536000, immutable",
			UserMetadata: map[string]string{"original-name": path.Base(fileName)},
		})
		return err
	})
	metrics.AssetOperations.WithLabelValues("upload", metrics.Outcome(err)).Inc()
	if err != nil {
		s.logger.WithContext(ctx).Error("asset upload failed",
			zap.String("key", key),
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return "", apperrors.NewAssetUploadError(err)
	}

	return s.baseURL + "/" + key, nil
}

// newKey builds <prefix>/<yyyymmdd_hhmmss>_<8 hex>.<ext>
func (s *Store) newKey(fileName, mimeType string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := s.now().UTC().Format("20060102_150405") + "_" + random + extension(fileName, mimeType)

	prefix := strings.Trim(s.config.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func extension(fileName, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" && ext != "." {
		return ext
	}
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// Owns reports whether rawURL points into this store's bucket
func (s *Store) Owns(rawURL string) bool {
	_, ok := s.keyOf(rawURL)
	return ok
}

func (s *Store) keyOf(rawURL string) (string, bool) {
	if s.baseURL == "" || rawURL == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(rawURL, s.baseURL+"/")
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

// Delete removes the object behind rawURL. Empty and foreign URLs succeed
// without touching storage. Failures return false and are never raised.
func (s *Store) Delete(ctx context.Context, rawURL string) bool {
	key, ok := s.keyOf(rawURL)
	if !ok {
		return true
	}
	if s.objects == nil {
		return true
	}

	err := s.retry.Do(ctx, "asset.delete", func(ctx context.Context) error {
		return s.objects.RemoveObject(ctx, s.config.Bucket, key)
	})
	metrics.AssetOperations.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		s.logger.WithContext(ctx).Warn("asset delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Release deletes every owned URL of a removed row. Failures are logged as
// cleanup warnings; the row change is already committed.
func (s *Store) Release(ctx context.Context, entity string, id int64, urls ...string) {
	for _, u := range urls {
		if !s.Owns(u) {
			continue
		}
		if !s.Delete(ctx, u) {
			s.warn(ctx, entity, id, u)
		}
	}
}

// ReleaseReplaced deletes oldURL when an update replaced it with a different value
func (s *Store) ReleaseReplaced(ctx context.Context, entity string, id int64, oldURL, newURL string) {
	if oldURL == newURL || !s.Owns(oldURL) {
		return
	}
	if !s.Delete(ctx, oldURL) {
		s.warn(ctx, entity, id, oldURL)
	}
}

func (s *Store) warn(ctx context.Context, entity string, id int64, rawURL string) {
	metrics.AssetCleanupWarnings.WithLabelValues(entity).Inc()
	s.logger.WithContext(ctx).Warn("asset cleanup warning",
		zap.String("entity", entity),
		zap.Int64("id", id),
		zap.String("url", rawURL),
		zap.Int("code", apperrors.ErrAssetCleanup),
	)
}
