package exif

import (
	"bytes"
	"errors"
	"fmt"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Tags holds the EXIF fields the extractor cares about. Empty strings and nil
// slices mean the tag was absent.
type Tags struct {
	DateTimeOriginal string
	DateTime         string
	Latitude         []float64
	LatitudeRef      string
	Longitude        []float64
	LongitudeRef     string
}

// TagDecoder turns an EXIF payload (the TIFF structure that follows the
// "Exif\0\0" header) into tags
type TagDecoder interface {
	Decode(payload []byte) (*Tags, error)
}

// GoexifDecoder decodes payloads with github.com/rwcarlsen/goexif
type GoexifDecoder struct{}

func (GoexifDecoder) Decode(payload []byte) (*Tags, error) {
	x, err := goexif.Decode(bytes.NewReader(payload))
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	// Non-critical errors (a broken sub-IFD) leave a usable partial result

	tags := &Tags{
		DateTimeOriginal: stringTag(x, goexif.DateTimeOriginal),
		DateTime:         stringTag(x, goexif.DateTime),
		LatitudeRef:      stringTag(x, goexif.GPSLatitudeRef),
		LongitudeRef:     stringTag(x, goexif.GPSLongitudeRef),
	}
	// Malformed coordinates are dropped, not fatal
	tags.Latitude, _ = rationalTag(x, goexif.GPSLatitude)
	tags.Longitude, _ = rationalTag(x, goexif.GPSLongitude)
	return tags, nil
}

func stringTag(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

var errZeroDenominator = errors.New("zero denominator")

func rationalTag(x *goexif.Exif, name goexif.FieldName) ([]float64, error) {
	tag, err := x.Get(name)
	if err != nil {
		return nil, err
	}
	return rationals(tag)
}

func rationals(tag *tiff.Tag) ([]float64, error) {
	vals := make([]float64, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, fmt.Errorf("rational %d: %w", i, err)
		}
		if den == 0 {
			return nil, fmt.Errorf("rational %d: %w", i, errZeroDenominator)
		}
		vals = append(vals, float64(num)/float64(den))
	}
	return vals, nil
}
