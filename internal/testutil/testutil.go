// Package testutil holds fixtures shared by package tests: an in-memory
// sqlite store, a sqlmock store, a recording object store and miniredis.
package testutil

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/minio"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

// PublicBaseURL is the asset base URL used by NewAssetStore
const PublicBaseURL = "https://cdn.studio.test/media"

// NewDB opens a fresh in-memory sqlite store and migrates models
func NewDB(t *testing.T, models ...interface{}) *database.DB {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.Path = ":memory:"
	cfg.LogLevel = "silent"

	db, err := database.New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

// NewMockDB returns a postgres-dialect store backed by sqlmock
func NewMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := database.DefaultConfig()
	cfg.PrepareStmt = false
	cfg.LogLevel = "silent"
	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg, logger.NewNop())
	require.NoError(t, err)
	return db, mock
}

// NewRedis starts a miniredis server and a client connected to it
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := redis.DefaultConfig()
	cfg.Addr = mr.Addr()

	client, err := redis.New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// FakeObjects records object storage calls. Set PutErr/RemoveErr to make them fail.
type FakeObjects struct {
	mu        sync.Mutex
	Puts      []string
	Removes   []string
	PutErr    error
	RemoveErr error
}

func (f *FakeObjects) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PutErr != nil {
		return minio.UploadInfo{}, f.PutErr
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.Puts = append(f.Puts, key)
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: n}, nil
}

func (f *FakeObjects) RemoveObject(_ context.Context, _ string, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Removes = append(f.Removes, key)
	return f.RemoveErr
}

// Removed returns a copy of the removed keys
func (f *FakeObjects) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Removes...)
}

// NewAssetStore returns an asset store over objects rooted at PublicBaseURL
func NewAssetStore(objects asset.ObjectStore) *asset.Store {
	return asset.NewStore(objects, asset.Config{
		Bucket:        "studio-media",
		PublicBaseURL: PublicBaseURL,
		Prefix:        "site",
		MaxBytes:      1 << 20,
	}, logger.NewNop())
}

// OwnedURL is a URL the asset store from NewAssetStore considers its own
func OwnedURL(key string) string {
	return PublicBaseURL + "/" + key
}
