package snapshot

import (
	"context"
	"fmt"

	"github.com/scienceol/labstock/pkg/repo"
	"github.com/sethvargo/go-envconfig"
)

type Target string

const (
	TargetFile Target = "file"
	TargetS3   Target = "s3"
)

// Config is read from EXPORT_* variables.
type Config struct {
	Target Target `env:"EXPORT_TARGET, default=file"`
	Dir    string `env:"EXPORT_DIR, default=./exports"`

	Bucket    string `env:"EXPORT_S3_BUCKET"`
	Prefix    string `env:"EXPORT_S3_PREFIX, default=labstock/"`
	Region    string `env:"EXPORT_S3_REGION, default=us-east-1"`
	Endpoint  string `env:"EXPORT_S3_ENDPOINT"`
	AccessKey string `env:"EXPORT_S3_ACCESS_KEY"`
	SecretKey string `env:"EXPORT_S3_SECRET_KEY"`
	PathStyle bool   `env:"EXPORT_S3_PATH_STYLE, default=false"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	conf := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: conf, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("export config: %w", err)
	}
	return conf, nil
}

// New builds the repo selected by conf.Target.
func New(ctx context.Context, conf *Config) (repo.SnapshotRepo, error) {
	var (
		r   repo.SnapshotRepo
		err error
	)
	switch conf.Target {
	case TargetFile, "":
		r, err = NewFileStore(conf.Dir)
	case TargetS3:
		r, err = NewS3Store(ctx, conf)
	default:
		err = fmt.Errorf("unknown export target %q", conf.Target)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
