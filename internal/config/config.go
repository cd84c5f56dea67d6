// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/filesmanager/pkg/db"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/redis"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	BlobLocal = "local"
	BlobS3    = "s3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":5000" validate:"required"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s" validate:"gte=0"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`

	MetadataDriver string `env:"METADATA_DRIVER" envDefault:"postgres" validate:"oneof=postgres memory"`
	DB             db.Config

	Redis redis.Config

	BlobDriver       string        `env:"BLOB_DRIVER" envDefault:"local" validate:"oneof=local s3"`
	FolderPath       string        `env:"FOLDER_PATH" envDefault:"/tmp/files_manager" validate:"required_if=BlobDriver local"`
	BlobWriteTimeout time.Duration `env:"BLOB_WRITE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	S3               storage.S3Config

	JobsEnabled       bool          `env:"JOBS_ENABLED" envDefault:"true"`
	JobEnqueueTimeout time.Duration `env:"JOB_ENQUEUE_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	JobWorkers        int           `env:"JOB_WORKERS" envDefault:"10" validate:"gt=0"`
	ThumbnailSizes    []int         `env:"THUMBNAIL_SIZES" envDefault:"500,250,100" validate:"min=1,dive,gt=0"`

	AuthTokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h" validate:"gt=0"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"10s" validate:"gte=0"`

	Sentry         logger.SentryConfig
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

var validate = validator.New()

// Load parses the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom parses environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags and the rules that span several fields.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: %s failed on %q (value: %v)", ErrInvalidConfig, e.Namespace(), e.Tag(), e.Value())
		}
		return errors.Join(ErrInvalidConfig, err)
	}

	if cfg.MetadataDriver == DriverPostgres && cfg.DB.ConnectionString == "" {
		return fmt.Errorf("%w: DATABASE_CONN_URL is required for the postgres driver", ErrInvalidConfig)
	}
	if cfg.JobsEnabled && cfg.MetadataDriver != DriverPostgres {
		return fmt.Errorf("%w: JOBS_ENABLED requires the postgres metadata driver", ErrInvalidConfig)
	}
	if cfg.BlobDriver == BlobS3 && cfg.S3.Bucket == "" {
		return fmt.Errorf("%w: S3_BUCKET is required for the s3 blob driver", ErrInvalidConfig)
	}
	return nil
}
