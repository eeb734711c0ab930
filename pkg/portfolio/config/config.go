package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/exif"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/memory"
	repopg "github.com/tendant/simple-portfolio/pkg/portfolio/repo/postgres"
	fsstorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/fs"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
	s3storage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/s3"
	"github.com/tendant/simple-portfolio/pkg/portfolio/urlstrategy"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		DBSchema:      "portfolio",
		StorageType:   "memory",
		PublicBaseURL: "http://localhost:8080/files",
		S3: S3Config{
			Region:          "us-east-1",
			PresignDuration: 3600,
		},
		MaxMediaBytes: portfolio.DefaultMaxMediaBytes,
		MaxPhotoBytes: portfolio.DefaultMaxPhotoBytes,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// ServerConfig represents configuration for the portfolio service and its server
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: portfolio)
	AutoMigrate  bool   // apply embedded migrations on startup

	// Blob storage configuration
	StorageType    string // "memory", "fs", "s3"
	StorageBaseDir string // fs only
	S3             S3Config

	// Public URL configuration
	CDNDomain     string
	PublicBaseURL string // URL prefix blobs are served under for memory and fs storage

	// Upload limits in bytes
	MaxMediaBytes int64
	MaxPhotoBytes int64

	// HTTP surface
	JWTSecret      string
	AllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// S3Config holds the S3 blob store settings
type S3Config struct {
	Bucket                 string
	Region                 string
	Endpoint               string
	AccessKeyID            string
	SecretAccessKey        string
	UsePathStyle           bool
	PresignDuration        int
	CacheControl           string
	CreateBucketIfNotExist bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.StorageBaseDir == "" {
			return errors.New("storage base dir is required for fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type '%s'", c.StorageType)
	}

	if c.StorageType != "s3" && c.CDNDomain == "" && c.PublicBaseURL == "" {
		return errors.New("public_base_url is required unless a CDN domain or s3 storage is configured")
	}

	if c.MaxMediaBytes <= 0 || c.MaxPhotoBytes <= 0 {
		return errors.New("upload limits must be positive")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be 'text' or 'json', got '%s'", c.LogFormat)
	}

	return nil
}

// URLConfig returns the resolver configuration implied by the storage setup
func (c *ServerConfig) URLConfig() urlstrategy.Config {
	cfg := urlstrategy.Config{CDNDomain: c.CDNDomain}
	if c.StorageType == "s3" {
		cfg.Bucket = c.S3.Bucket
		cfg.Region = c.S3.Region
	} else {
		cfg.PublicBase = c.PublicBaseURL
	}
	return cfg
}

// Components are the parts a server assembles from the configuration
type Components struct {
	Service    portfolio.Service
	Repository portfolio.Repository
	BlobStore  portfolio.BlobStore
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context, extra ...portfolio.Option) (portfolio.Service, error) {
	comp, err := c.Build(ctx, extra...)
	if err != nil {
		return nil, err
	}
	return comp.Service, nil
}

// Build creates the repository, blob store and service. Servers that serve
// blobs themselves need the store alongside the service.
func (c *ServerConfig) Build(ctx context.Context, extra ...portfolio.Option) (*Components, error) {
	var options []portfolio.Option

	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, portfolio.WithRepository(repo))

	store, err := c.BuildBlobStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}
	options = append(options, portfolio.WithBlobStore(store))

	resolver, err := urlstrategy.New(c.URLConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build URL resolver: %w", err)
	}
	options = append(options,
		portfolio.WithURLResolver(resolver),
		portfolio.WithMetadataExtractor(exif.New()),
		portfolio.WithUploadLimits(portfolio.UploadLimits{
			MaxMediaBytes: c.MaxMediaBytes,
			MaxPhotoBytes: c.MaxPhotoBytes,
		}),
		portfolio.WithLogger(slog.Default()),
	)

	svc, err := portfolio.New(append(options, extra...)...)
	if err != nil {
		return nil, err
	}
	return &Components{Service: svc, Repository: repo, BlobStore: store}, nil
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (portfolio.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := c.NewPool(ctx)
		if err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// NewPool opens a pgx pool whose sessions use the configured schema. With
// AutoMigrate set, the schema is created and migrated first.
func (c *ServerConfig) NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.DatabaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	if c.AutoMigrate {
		if err := c.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// Migrate creates the schema if needed and applies the embedded migrations
func (c *ServerConfig) Migrate(ctx context.Context) error {
	if c.DatabaseType != "postgres" {
		return errors.New("migrations require a postgres database")
	}
	conn, err := pgx.Connect(ctx, c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if err := repopg.EnsureSchema(ctx, conn, c.DBSchema); err != nil {
		return err
	}
	return repopg.NewMigration(c.DatabaseURL, c.DBSchema, repopg.DefaultEngine).Up()
}

// BuildBlobStore creates the blob store named by StorageType
func (c *ServerConfig) BuildBlobStore(ctx context.Context) (portfolio.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		store, err := fsstorage.New(fsstorage.Config{BaseDir: c.StorageBaseDir})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignDuration,
			CacheControl:           c.S3.CacheControl,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
