package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
)

const (
	// DefaultMaxMediaBytes caps artwork and generic media uploads
	DefaultMaxMediaBytes int64 = 500 << 20
	// DefaultMaxPhotoBytes caps travel photos and metadata extraction
	DefaultMaxPhotoBytes int64 = 50 << 20
)

// UploadLimits holds the size ceilings per upload class
type UploadLimits struct {
	MaxMediaBytes int64
	MaxPhotoBytes int64
}

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	resolver   URLResolver
	extractor  MetadataExtractor
	keys       KeyGenerator
	metrics    MetricsRecorder
	logger     *slog.Logger
	limits     UploadLimits
	now        func() time.Time
	guard      *currentTravelGuard
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the record repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithURLResolver sets how public URLs are built and resolved
func WithURLResolver(resolver URLResolver) Option {
	return func(s *service) {
		s.resolver = resolver
	}
}

// WithMetadataExtractor sets the photo metadata extractor
func WithMetadataExtractor(extractor MetadataExtractor) Option {
	return func(s *service) {
		s.extractor = extractor
	}
}

// WithKeyGenerator overrides the object key layout
func WithKeyGenerator(keys KeyGenerator) Option {
	return func(s *service) {
		s.keys = keys
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics MetricsRecorder) Option {
	return func(s *service) {
		s.metrics = metrics
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithUploadLimits overrides the upload size ceilings. Non-positive values
// keep the defaults.
func WithUploadLimits(limits UploadLimits) Option {
	return func(s *service) {
		if limits.MaxMediaBytes > 0 {
			s.limits.MaxMediaBytes = limits.MaxMediaBytes
		}
		if limits.MaxPhotoBytes > 0 {
			s.limits.MaxPhotoBytes = limits.MaxPhotoBytes
		}
	}
}

// WithClock sets the clock used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keys:    objectkey.NewTimestampGenerator(),
		metrics: NewNoopMetrics(),
		logger:  slog.Default(),
		limits: UploadLimits{
			MaxMediaBytes: DefaultMaxMediaBytes,
			MaxPhotoBytes: DefaultMaxPhotoBytes,
		},
		now: func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("URL resolver is required")
	}
	if s.extractor == nil {
		s.extractor = fallbackExtractor{now: s.now}
	}
	s.guard = &currentTravelGuard{
		repo:    s.repository,
		logger:  s.logger,
		metrics: s.metrics,
	}

	return s, nil
}

func (s *service) Ping(ctx context.Context) error {
	if err := s.repository.Ping(ctx); err != nil {
		s.logger.Error("record store ping failed", "err", err)
		return &StorageError{Store: "record", Op: "ping", Err: err}
	}
	return nil
}

// Upload policy

func (s *service) checkUpload(u *Upload, field string, allowVideo bool, limit int64) error {
	if u.Reader == nil {
		return invalid(field, "required", "%s file is required", field)
	}
	mime := strings.ToLower(strings.TrimSpace(u.MimeType))
	switch {
	case strings.HasPrefix(mime, "image/"):
	case allowVideo && strings.HasPrefix(mime, "video/"):
	default:
		if allowVideo {
			return invalid(field, "mimetype", "%s must be an image or video, got %q", field, u.MimeType)
		}
		return invalid(field, "mimetype", "%s must be an image, got %q", field, u.MimeType)
	}
	if u.Size <= 0 {
		return invalid(field, "required", "%s file is empty", field)
	}
	if u.Size > limit {
		return invalid(field, "max", "%s exceeds the %d byte limit", field, limit)
	}
	return nil
}

// Blob helpers

// storeBlob writes u under a fresh key in the kind namespace and returns the
// key with its public URL
func (s *service) storeBlob(ctx context.Context, kind Kind, u *Upload) (string, string, error) {
	key := s.keys.GenerateKey(string(kind), u.FileName)
	err := s.blobStore.UploadWithParams(ctx, u.Reader, UploadParams{
		ObjectKey: key,
		MimeType:  u.MimeType,
		FileName:  u.FileName,
	})
	if err != nil {
		s.logger.Error("blob upload failed", "kind", kind, "key", key, "err", err)
		return "", "", &StorageError{Store: "blob", Op: "upload", Key: key, Err: err}
	}
	s.metrics.BlobStored(kind)
	return key, s.resolver.PublicURL(key), nil
}

// reclaimBlob deletes the blob behind rawURL. Failures are logged and
// reported through the outcome, never returned.
func (s *service) reclaimBlob(ctx context.Context, kind Kind, rawURL string) (BlobOutcome, string) {
	if strings.TrimSpace(rawURL) == "" {
		return BlobNone, ""
	}

	res := s.resolver.Resolve(rawURL)
	if !res.Resolved {
		s.logger.Warn("blob URL unresolvable, skipping delete", "kind", kind, "url", rawURL)
		s.metrics.BlobDeleted(kind, BlobUnresolvable)
		return BlobUnresolvable, ""
	}

	if err := s.blobStore.Delete(ctx, res.Key); err != nil && !errors.Is(err, ErrBlobNotFound) {
		s.logger.Warn("blob delete failed, blob may be orphaned", "kind", kind, "key", res.Key, "err", err)
		s.metrics.BlobDeleted(kind, BlobFailed)
		return BlobFailed, res.Key
	}
	s.metrics.BlobDeleted(kind, BlobReclaimed)
	return BlobReclaimed, res.Key
}

// discardBlob removes a blob stored earlier in a unit of work that then failed
func (s *service) discardBlob(ctx context.Context, kind Kind, key string) {
	if key == "" {
		return
	}
	if err := s.blobStore.Delete(ctx, key); err != nil {
		s.logger.Warn("compensating blob delete failed", "kind", kind, "key", key, "err", err)
		s.metrics.BlobDeleted(kind, BlobFailed)
		return
	}
	s.metrics.BlobDeleted(kind, BlobReclaimed)
}

// Error translation

func isNotFound(err error) bool {
	return errors.Is(err, ErrArtworkNotFound) || errors.Is(err, ErrTravelNotFound)
}

// recordFailure wraps a repository error for callers. Store failures are
// logged with their cause and reduced to StorageError.
func (s *service) recordFailure(kind Kind, id uuid.UUID, op string, err error) error {
	if errors.Is(err, ErrValidation) {
		return err
	}
	if isNotFound(err) {
		return &RecordError{Kind: kind, ID: id, Op: op, Err: err}
	}
	s.logger.Error("record store failure", "kind", kind, "id", id, "op", op, "err", err)
	return &RecordError{Kind: kind, ID: id, Op: op, Err: &StorageError{Store: "record", Op: op, Err: err}}
}

func (s *service) storeFailure(kind Kind, op string, err error) error {
	s.logger.Error("record store failure", "kind", kind, "op", op, "err", err)
	return &StorageError{Store: "record", Op: op, Err: err}
}
