package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
)

func (s *service) UploadMedia(ctx context.Context, upload Upload) (*MediaUpload, error) {
	if err := s.checkUpload(&upload, "media", true, s.limits.MaxMediaBytes); err != nil {
		return nil, err
	}

	key, url, err := s.storeBlob(ctx, KindMedia, &upload)
	if err != nil {
		return nil, err
	}

	return &MediaUpload{
		Key:       key,
		URL:       url,
		DirectURL: s.resolver.DirectURL(key),
		FileName:  upload.FileName,
		Size:      upload.Size,
		MimeType:  upload.MimeType,
	}, nil
}

// mediaKey maps a file name, with or without the media/ prefix, to its key
func mediaKey(fileName string) (string, error) {
	name := strings.TrimSpace(fileName)
	if objectkey.KeyInNamespace(name, string(KindMedia)) {
		name = name[len(KindMedia)+1:]
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", invalid("fileName", "filename", "invalid media file name %q", fileName)
	}
	return string(KindMedia) + "/" + name, nil
}

// DeleteMedia removes a generic media blob. Unlike record deletes, failures
// are returned to the caller.
func (s *service) DeleteMedia(ctx context.Context, fileName string) error {
	key, err := mediaKey(fileName)
	if err != nil {
		return err
	}

	if err := s.blobStore.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return fmt.Errorf("media %s: %w", key, ErrBlobNotFound)
		}
		s.logger.Error("media delete failed", "key", key, "err", err)
		s.metrics.BlobDeleted(KindMedia, BlobFailed)
		return &StorageError{Store: "blob", Op: "delete", Key: key, Err: err}
	}
	s.metrics.BlobDeleted(KindMedia, BlobReclaimed)
	return nil
}

// SignedMediaURL returns a time-limited read URL for a stored blob. Stores
// that cannot sign serve the public URL instead.
func (s *service) SignedMediaURL(ctx context.Context, publicURL string) (string, error) {
	res := s.resolver.Resolve(publicURL)
	if !res.Resolved {
		return "", invalid("url", "resolvable", "URL does not reference a stored blob")
	}

	signed, err := s.blobStore.GetDownloadURL(ctx, res.Key, path.Base(res.Key))
	if errors.Is(err, ErrNotSignable) {
		return s.resolver.PublicURL(res.Key), nil
	}
	if err != nil {
		s.logger.Error("sign blob URL failed", "key", res.Key, "err", err)
		return "", &StorageError{Store: "blob", Op: "sign", Key: res.Key, Err: err}
	}
	return signed, nil
}

func (s *service) ExtractPhotoMetadata(ctx context.Context, photo Upload) (PhotoMetadata, error) {
	if err := s.checkUpload(&photo, "photo", false, s.limits.MaxPhotoBytes); err != nil {
		return PhotoMetadata{}, err
	}

	data, err := io.ReadAll(io.LimitReader(photo.Reader, s.limits.MaxPhotoBytes+1))
	if err != nil {
		return PhotoMetadata{}, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > s.limits.MaxPhotoBytes {
		return PhotoMetadata{}, invalid("photo", "max", "photo exceeds the %d byte limit", s.limits.MaxPhotoBytes)
	}

	md := s.extractor.Extract(data)
	s.metrics.PhotoMetadataExtracted(md.HasMetadata)
	return md, nil
}
