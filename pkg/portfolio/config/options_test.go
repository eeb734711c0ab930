package config

import (
	"context"
	"strings"
	"testing"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to validate, got: %v", err)
	}
	if cfg.DatabaseType != "memory" || cfg.StorageType != "memory" {
		t.Errorf("expected memory database and storage, got %s/%s", cfg.DatabaseType, cfg.StorageType)
	}
	if cfg.MaxMediaBytes != portfolio.DefaultMaxMediaBytes || cfg.MaxPhotoBytes != portfolio.DefaultMaxPhotoBytes {
		t.Errorf("unexpected default limits %d/%d", cfg.MaxMediaBytes, cfg.MaxPhotoBytes)
	}
}

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got: %s", cfg.Environment)
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
		})
	}
}

func TestStorageOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		wantType  string
		wantError bool
	}{
		{"memory", []Option{WithMemoryStorage()}, "memory", false},
		{"filesystem", []Option{WithFilesystemStorage("/data")}, "fs", false},
		{"filesystem without dir", []Option{WithFilesystemStorage("")}, "", true},
		{"s3", []Option{WithS3Storage("bucket", "eu-central-1")}, "s3", false},
		{"s3 without bucket", []Option{WithS3Storage("", "")}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.opts...)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.StorageType != tt.wantType {
				t.Errorf("expected storage type %s, got: %s", tt.wantType, cfg.StorageType)
			}
		})
	}
}

func TestWithS3StorageKeepsDefaultRegion(t *testing.T) {
	cfg, err := Load(WithS3Storage("bucket", ""), WithS3Credentials("id", "secret"), WithS3Endpoint("http://minio:9000", true))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("expected default region, got %s", cfg.S3.Region)
	}
	if cfg.S3.Endpoint != "http://minio:9000" || !cfg.S3.UsePathStyle {
		t.Errorf("unexpected endpoint settings %+v", cfg.S3)
	}
}

func TestWithUploadLimits(t *testing.T) {
	cfg, err := Load(WithUploadLimits(1024, 512))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.MaxMediaBytes != 1024 || cfg.MaxPhotoBytes != 512 {
		t.Errorf("unexpected limits %d/%d", cfg.MaxMediaBytes, cfg.MaxPhotoBytes)
	}

	if _, err := Load(WithUploadLimits(0, 512)); err == nil {
		t.Error("expected error for zero media limit")
	}
}

func TestWithAllowedOrigins(t *testing.T) {
	cfg, err := Load(WithAllowedOrigins("https://a.example.com,https://b.example.com", " ", "https://c.example.com"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(cfg.AllowedOrigins) != 3 {
		t.Errorf("expected 3 origins, got %v", cfg.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"unknown storage", func(c *ServerConfig) { c.StorageType = "ftp" }},
		{"no public URL source", func(c *ServerConfig) { c.PublicBaseURL = "" }},
		{"bad log format", func(c *ServerConfig) { c.LogFormat = "xml" }},
		{"negative limit", func(c *ServerConfig) { c.MaxPhotoBytes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestURLConfig(t *testing.T) {
	cfg, err := Load(WithPublicBaseURL("http://localhost:9000/files/"), WithCDNDomain("cdn.example.com"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	urls := cfg.URLConfig()
	if urls.PublicBase != "http://localhost:9000/files" {
		t.Errorf("unexpected public base %q", urls.PublicBase)
	}
	if urls.Bucket != "" {
		t.Errorf("memory storage should not configure a bucket, got %q", urls.Bucket)
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load(WithMemoryStorage())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	svc, err := cfg.BuildService(context.Background())
	if err != nil {
		t.Fatalf("expected service, got: %v", err)
	}
	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("expected ping to succeed, got: %v", err)
	}
}

func TestBuildSharesBlobStore(t *testing.T) {
	cfg, err := Load(WithMemoryStorage())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	comp, err := cfg.Build(context.Background())
	if err != nil {
		t.Fatalf("expected components, got: %v", err)
	}
	if comp.Service == nil || comp.Repository == nil || comp.BlobStore == nil {
		t.Fatalf("expected every component to be set, got %+v", comp)
	}

	stored, err := comp.Service.UploadMedia(context.Background(), portfolio.Upload{
		FileName: "a.png",
		MimeType: "image/png",
		Size:     3,
		Reader:   strings.NewReader("png"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := comp.BlobStore.GetObjectMeta(context.Background(), stored.Key); err != nil {
		t.Errorf("expected blob in the shared store, got: %v", err)
	}
}

func TestBuildServiceFilesystem(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage(t.TempDir()))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := cfg.BuildService(context.Background()); err != nil {
		t.Fatalf("expected service, got: %v", err)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := cfg.Migrate(context.Background()); err == nil {
		t.Error("expected error migrating a memory database")
	}
}
