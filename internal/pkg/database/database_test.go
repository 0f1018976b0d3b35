package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type note struct {
	ID        int64  `gorm:"primaryKey"`
	Slug      string `gorm:"uniqueIndex"`
	Kind      string
	CreatedAt time.Time
}

func newSQLite(t *testing.T) *DB {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Driver = DriverSQLite
	cfg.Path = ":memory:"
	cfg.LogLevel = "silent"

	db, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default config", func(c *Config) {}, false},
		{"sqlite", func(c *Config) { c.Driver = DriverSQLite; c.Path = ":memory:" }, false},
		{"sqlite without path", func(c *Config) { c.Driver = DriverSQLite }, true},
		{"unknown driver", func(c *Config) { c.Driver = "mysql" }, true},
		{"missing host", func(c *Config) { c.Host = "" }, true},
		{"invalid port", func(c *Config) { c.Port = 0 }, true},
		{"invalid SSL mode", func(c *Config) { c.SSLMode = "sometimes" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 50; c.MaxOpenConns = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=studio sslmode=disable TimeZone=UTC", cfg.DSN())
	assert.NotContains(t, cfg.Target(), "secret")

	cfg.Driver = DriverSQLite
	cfg.Path = "studio.db"
	assert.Equal(t, "studio.db", cfg.DSN())
}

func TestFindPage(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, kind := range []string{"a", "b", "a", "a", "b"} {
		require.NoError(t, db.GetDB().Create(&note{
			Slug:      string(rune('p' + i)),
			Kind:      kind,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	onlyA := WhereIf(true, "kind = ?", "a")

	first, err := FindPage[note](ctx, db.GetDB(), 1, 2, OrderBy("created_at", true), onlyA)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Total)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "s", first.Items[0].Slug)

	second, err := FindPage[note](ctx, db.GetDB(), 2, 2, OrderBy("created_at", true), onlyA)
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.Len(t, second.Items, 1)

	beyond, err := FindPage[note](ctx, db.GetDB(), 9, 2, nil, onlyA)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestFindPageFailsWhenEitherQueryFails(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "count fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT count\(\*\) FROM "notes"`).WillReturnError(errors.New("connection reset"))
			},
		},
		{
			name: "data query fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT count\(\*\) FROM "notes"`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
				mock.ExpectQuery(`SELECT \* FROM "notes"`).WillReturnError(errors.New("statement timeout"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			cfg := DefaultConfig()
			cfg.PrepareStmt = false
			cfg.LogLevel = "silent"
			db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg, logger.NewNop())
			require.NoError(t, err)

			tt.expect(mock)
			page, err := FindPage[note](context.Background(), db.GetDB(), 1, 10, nil)
			assert.Error(t, err)
			assert.Nil(t, page)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestErrorClassifiers(t *testing.T) {
	db := newSQLite(t)

	require.NoError(t, db.GetDB().Create(&note{Slug: "dup"}).Error)
	err := db.GetDB().Create(&note{Slug: "dup"}).Error
	assert.True(t, IsDuplicateKeyError(err))

	var n note
	err = db.GetDB().First(&n, 999).Error
	assert.True(t, IsRecordNotFoundError(err))
	assert.False(t, IsDuplicateKeyError(err))
	assert.False(t, IsDuplicateKeyError(nil))
}

func TestTransactionRollsBack(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Create(&note{Slug: "tx"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := Exists(ctx, db.GetDB(), &note{}, "slug = ?", "tx")
	require.NoError(t, err)
	assert.False(t, exists)
}
