package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API          *APIConfig
	Gin          *GinConfig
	Postgres     *PostgresConfig
	Certificates *CertificatesConfig
	Reaper       *ReaperConfig
}

type APIConfig struct {
	Environment        string
	Port               string
	BaseURL            string
	JWTSigningKey      string
	JWTTTL             time.Duration
	AllowedCORSDomains []string
	LogLevel           string
	// AdminEmail and AdminPassword seed the first admin account when both are set.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type GinConfig struct {
	Mode string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

type CertificatesConfig struct {
	// PublicDir is the root served to clients; artifacts land in PublicDir/Dir.
	PublicDir    string
	Dir          string
	Format       string
	Scale        float64
	FetchTimeout time.Duration
	Async        bool
	QueueSize    int
}

type ReaperConfig struct {
	Enabled   bool
	Schedule  string
	Retention time.Duration
	DryRun    bool
}

var (
	mu        sync.Mutex
	listeners []func(*AppConfig)
)

// OnChange registers fn to run with the reloaded config whenever the file changes.
func OnChange(fn func(*AppConfig)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig() -> %w", err)
	}

	conf := fromViper(v)

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		reloaded := fromViper(v)

		mu.Lock()
		fns := append([]func(*AppConfig){}, listeners...)
		mu.Unlock()
		for _, fn := range fns {
			fn(reloaded)
		}
	})
	v.WatchConfig()

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.jwt_ttl", "24h")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.admin_name", "Administrator")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("certificates.public_dir", "public")
	v.SetDefault("certificates.dir", "certificates")
	v.SetDefault("certificates.format", "pdf")
	v.SetDefault("certificates.scale", 2.0)
	v.SetDefault("certificates.fetch_timeout", "10s")
	v.SetDefault("certificates.async", false)
	v.SetDefault("certificates.queue_size", 64)
	v.SetDefault("reaper.enabled", true)
	v.SetDefault("reaper.schedule", "15 3 * * *")
	v.SetDefault("reaper.retention", "1h")
	v.SetDefault("reaper.dry_run", false)
}

func fromViper(v *viper.Viper) *AppConfig {
	return &AppConfig{
		API: &APIConfig{
			Environment:        v.GetString("api.environment"),
			Port:               v.GetString("api.port"),
			BaseURL:            v.GetString("api.base_url"),
			JWTSigningKey:      v.GetString("api.jwt_signing_key"),
			JWTTTL:             v.GetDuration("api.jwt_ttl"),
			AllowedCORSDomains: v.GetStringSlice("api.allowed_cors_domains"),
			LogLevel:           v.GetString("api.log_level"),
			AdminName:          v.GetString("api.admin_name"),
			AdminEmail:         v.GetString("api.admin_email"),
			AdminPassword:      v.GetString("api.admin_password"),
		},
		Gin: &GinConfig{
			Mode: v.GetString("gin.mode"),
		},
		Postgres: &PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			DB:       v.GetString("postgres.db"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		Certificates: &CertificatesConfig{
			PublicDir:    v.GetString("certificates.public_dir"),
			Dir:          v.GetString("certificates.dir"),
			Format:       v.GetString("certificates.format"),
			Scale:        v.GetFloat64("certificates.scale"),
			FetchTimeout: v.GetDuration("certificates.fetch_timeout"),
			Async:        v.GetBool("certificates.async"),
			QueueSize:    v.GetInt("certificates.queue_size"),
		},
		Reaper: &ReaperConfig{
			Enabled:   v.GetBool("reaper.enabled"),
			Schedule:  v.GetString("reaper.schedule"),
			Retention: v.GetDuration("reaper.retention"),
			DryRun:    v.GetBool("reaper.dry_run"),
		},
	}
}
