package portfolio

import "time"

// NoopMetrics is a no-operation implementation of MetricsRecorder
type NoopMetrics struct{}

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() MetricsRecorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) BlobStored(kind Kind)                       {}
func (n *NoopMetrics) BlobDeleted(kind Kind, outcome BlobOutcome) {}
func (n *NoopMetrics) RecordWritten(kind Kind, op string)         {}
func (n *NoopMetrics) CurrentTravelCleared(count int64)           {}
func (n *NoopMetrics) PhotoMetadataExtracted(hasMetadata bool)    {}

// fallbackExtractor is used when no EXIF extractor is configured; every
// photo takes the no-metadata path
type fallbackExtractor struct {
	now func() time.Time
}

func (f fallbackExtractor) Extract([]byte) PhotoMetadata {
	return PhotoMetadata{DateTaken: f.now(), HasMetadata: false}
}
