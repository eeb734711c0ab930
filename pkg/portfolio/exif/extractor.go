package exif

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

const (
	// exifHeaderLen is the "Exif\0\0" identifier that opens an APP1 payload
	exifHeaderLen = 6
	// minPayloadLen is the smallest TIFF structure worth decoding
	minPayloadLen = 8

	dateLayout = "2006-01-02 15:04:05"
)

var app1Marker = []byte{0xFF, 0xE1}

// Extractor reads capture time and GPS position from JPEG buffers
type Extractor struct {
	decoder TagDecoder
	now     func() time.Time
	loc     *time.Location
	logger  *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithDecoder replaces the goexif tag decoder
func WithDecoder(d TagDecoder) Option {
	return func(e *Extractor) { e.decoder = d }
}

// WithClock sets the clock used for fallback dates
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithLocation sets the time zone EXIF dates are interpreted in. EXIF
// dates carry no offset; the default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Extractor) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the logger used for debug output on decode failures
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		decoder: GoexifDecoder{},
		now:     time.Now,
		loc:     time.UTC,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ portfolio.MetadataExtractor = (*Extractor)(nil)

// Extract never fails. Without a usable EXIF segment it returns the current
// time with HasMetadata false.
func (e *Extractor) Extract(data []byte) portfolio.PhotoMetadata {
	payload, ok := Payload(data)
	if !ok {
		return e.fallback()
	}

	tags, err := e.decoder.Decode(payload)
	if err != nil {
		e.logger.Debug("exif decode failed", "err", err)
		return e.fallback()
	}

	md := portfolio.PhotoMetadata{DateTaken: e.now(), HasMetadata: true}

	raw := tags.DateTimeOriginal
	if strings.TrimSpace(raw) == "" {
		raw = tags.DateTime
	}
	if raw = strings.TrimSpace(strings.TrimRight(raw, "\x00")); raw != "" {
		taken, err := time.ParseInLocation(dateLayout, strings.Replace(raw, ":", "-", 2), e.loc)
		if err != nil {
			e.logger.Debug("exif date unparsable", "value", raw, "err", err)
			return e.fallback()
		}
		md.DateTaken = taken
	}

	lat, latOK := ConvertDMS(tags.Latitude, tags.LatitudeRef)
	lng, lngOK := ConvertDMS(tags.Longitude, tags.LongitudeRef)
	if latOK && lngOK {
		md.Location = &portfolio.GeoPoint{Lat: lat, Lng: lng}
	}
	return md
}

func (e *Extractor) fallback() portfolio.PhotoMetadata {
	return portfolio.PhotoMetadata{DateTaken: e.now(), HasMetadata: false}
}

// Payload locates the first APP1 segment in data and returns the TIFF
// structure inside it. The segment's declared length must fit in data.
func Payload(data []byte) ([]byte, bool) {
	idx := bytes.Index(data, app1Marker)
	if idx < 0 || idx+4 > len(data) {
		return nil, false
	}
	length := int(binary.BigEndian.Uint16(data[idx+2 : idx+4]))
	// length counts its own two bytes
	if length < 2 || idx+2+length > len(data) {
		return nil, false
	}
	segment := data[idx+4 : idx+2+length]
	if len(segment) < exifHeaderLen+minPayloadLen+1 {
		return nil, false
	}
	return segment[exifHeaderLen:], true
}
