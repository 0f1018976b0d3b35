package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/minio"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STUDIO_AUTH_JWT_SECRET
const EnvPrefix = "STUDIO"

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    database.Config   `mapstructure:"database"`
	Redis       redis.Config      `mapstructure:"redis"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Site        SiteConfig        `mapstructure:"site"`
	Blog        BlogConfig        `mapstructure:"blog"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Seed        SeedConfig        `mapstructure:"seed"`
	Log         logger.Config     `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig 对象存储；Endpoint 为空时上传功能关闭
type StorageConfig struct {
	minio.Config  `mapstructure:",squash"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Prefix        string `mapstructure:"prefix"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb"`
}

// Enabled reports whether uploads can be served
func (s StorageConfig) Enabled() bool {
	return s.Config.Configured() && s.Bucket != "" && s.PublicBaseURL != ""
}

// MaxUploadBytes is the per-file upload cap
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	SessionSecret string        `mapstructure:"session_secret"`
	ServiceKey    string        `mapstructure:"service_key"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

// SiteConfig external form links handed to the public pages
type SiteConfig struct {
	BookingFormURL string `mapstructure:"booking_form_url"`
	ContactFormURL string `mapstructure:"contact_form_url"`
}

type BlogConfig struct {
	Provider    string        `mapstructure:"provider"`
	Username    string        `mapstructure:"username"`
	FeedBaseURL string        `mapstructure:"feed_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type MaintenanceConfig struct {
	// SweepInterval runs the is_past sweep periodically; 0 disables the ticker
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// SeedConfig drives cmd/seed. Admin* create the first administrator when
// AdminEmail is set; FakeRows pads each content table with generated rows.
type SeedConfig struct {
	Workers       int    `mapstructure:"workers"`
	FakeRows      int    `mapstructure:"fake_rows"`
	FakerSeed     int64  `mapstructure:"faker_seed"`
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	db := database.DefaultConfig()
	v.SetDefault("database.driver", db.Driver)
	v.SetDefault("database.host", db.Host)
	v.SetDefault("database.port", db.Port)
	v.SetDefault("database.user", db.User)
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", db.DBName)
	v.SetDefault("database.sslmode", db.SSLMode)
	v.SetDefault("database.timezone", db.Timezone)
	v.SetDefault("database.path", "")
	v.SetDefault("database.max_idle_conns", db.MaxIdleConns)
	v.SetDefault("database.max_open_conns", db.MaxOpenConns)
	v.SetDefault("database.conn_max_lifetime", db.ConnMaxLifetime)
	v.SetDefault("database.log_level", db.LogLevel)
	v.SetDefault("database.slow_threshold", db.SlowThreshold)
	v.SetDefault("database.prepare_stmt", db.PrepareStmt)
	v.SetDefault("database.auto_migrate", db.AutoMigrate)

	rc := redis.DefaultConfig()
	v.SetDefault("redis.addr", rc.Addr)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", rc.DB)
	v.SetDefault("redis.pool_size", rc.PoolSize)
	v.SetDefault("redis.min_idle_conns", rc.MinIdleConns)
	v.SetDefault("redis.dial_timeout", rc.DialTimeout)
	v.SetDefault("redis.read_timeout", rc.ReadTimeout)
	v.SetDefault("redis.write_timeout", rc.WriteTimeout)
	v.SetDefault("redis.max_retries", rc.MaxRetries)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "studio-media")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.prefix", "site")
	v.SetDefault("storage.max_upload_mb", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "yoga-studio")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.service_key", "")
	v.SetDefault("auth.session_ttl", 12*time.Hour)
	v.SetDefault("auth.cookie_secure", true)

	v.SetDefault("site.booking_form_url", "")
	v.SetDefault("site.contact_form_url", "")

	v.SetDefault("blog.provider", "devto")
	v.SetDefault("blog.username", "")
	v.SetDefault("blog.feed_base_url", "https://dev.to/api")
	v.SetDefault("blog.timeout", 10*time.Second)

	v.SetDefault("maintenance.sweep_interval", time.Duration(0))

	v.SetDefault("seed.workers", 4)
	v.SetDefault("seed.fake_rows", 0)
	v.SetDefault("seed.faker_seed", 0)
	v.SetDefault("seed.admin_name", "")
	v.SetDefault("seed.admin_email", "")
	v.SetDefault("seed.admin_password", "")

	lc := logger.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.enable_caller", lc.EnableCaller)
	v.SetDefault("log.enable_stacktrace", lc.EnableStacktrace)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.max_size", lc.File.MaxSize)
	v.SetDefault("log.file.max_age", lc.File.MaxAge)
	v.SetDefault("log.file.max_backups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)
}

// LoadConfig reads the YAML file at path (optional) and applies STUDIO_*
// environment overrides on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Problems lists missing credentials and settings. None of them stop the
// process; callers log them and the affected feature degrades.
func (c *Config) Problems() []string {
	var out []string

	if c.Database.Driver == database.DriverPostgres && c.Database.Password == "" {
		out = append(out, "database.password is empty")
	}
	if err := c.Database.Validate(); err != nil {
		out = append(out, "database: "+err.Error())
	}
	if c.Auth.JWTSecret == "" {
		out = append(out, "auth.jwt_secret is empty: sign-in is disabled")
	}
	if c.Auth.SessionSecret == "" {
		out = append(out, "auth.session_secret is empty: session cookies are disabled")
	}
	if c.Auth.ServiceKey == "" {
		out = append(out, "auth.service_key is empty: user provisioning is not mounted")
	}
	if !c.Storage.Enabled() {
		out = append(out, "storage is not configured: uploads are disabled")
	}
	if c.Site.BookingFormURL == "" {
		out = append(out, "site.booking_form_url is empty")
	}
	if c.Site.ContactFormURL == "" {
		out = append(out, "site.contact_form_url is empty")
	}
	return out
}
