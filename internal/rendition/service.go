package rendition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stuartaccent/images/internal/config"
	"github.com/stuartaccent/images/internal/filter"
)

// Service creates, looks up and clears renditions.
type Service struct {
	store   Store
	storage Storage
	backend filter.Backend
	logger  *zap.SugaredLogger

	opts          filter.Options
	defaultSpecs  []string
	clearOnSave   bool
	allowedExts   []string
	thumbnailSpec string
}

// NewService creates a Service. A nil logger discards log output.
func NewService(cfg *config.Config, store Store, storage Storage, backend filter.Backend, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:         store,
		storage:       storage,
		backend:       backend,
		logger:        logger,
		opts:          cfg.FilterOptions(),
		defaultSpecs:  cfg.DefaultFilterSpecs,
		clearOnSave:   cfg.ClearRenditionsOnSave,
		allowedExts:   cfg.AllowedFileExtensions,
		thumbnailSpec: cfg.ThumbnailFilterSpec,
	}
}

// Filter returns a filter for spec using the service's options.
func (s *Service) Filter(spec string) *filter.Filter {
	return filter.New(spec, s.opts)
}

// Storage returns the file storage renditions are written to.
func (s *Service) Storage() Storage {
	return s.storage
}

// GetRendition returns the rendition of img for spec, generating and storing
// it first if needed.
//
// Renditions are looked up by image, spec with the thumbnail alias expanded,
// and the filter cache key, so moving the focal point of an image yields new
// renditions for the specs that depend on it.
//
// # Errors
//
//   - *filter.InvalidFilterSpecError if spec does not parse
//   - *filter.SourceImageIOError if the original cannot be opened
//   - Store, decode and encode errors, wrapped
func (s *Service) GetRendition(ctx context.Context, img *Image, spec string) (*Rendition, error) {
	f := s.Filter(spec)
	src := img.Source(s.storage)

	key, err := f.CacheKey(src)
	if err != nil {
		return nil, err
	}
	resolved := f.ResolvedSpec()

	r, err := s.store.Get(ctx, img.ID, resolved, key)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var buf bytes.Buffer
	res, err := f.Run(s.backend, src, &buf)
	if err != nil {
		return nil, err
	}

	name, err := s.storage.Save(path.Join(RenditionsDir, Filename(img.File, resolved, res.Format)), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to save rendition: %w", err)
	}

	r = &Rendition{
		ImageID:       img.ID,
		FilterSpec:    resolved,
		FocalPointKey: key,
		File:          name,
		Format:        res.Format,
		Width:         res.Width,
		Height:        res.Height,
		CreatedAt:     time.Now().UTC(),
	}

	existing, created, err := s.store.Create(ctx, r)
	if err != nil {
		s.deleteFile(name)
		return nil, err
	}
	if !created {
		// Generated concurrently elsewhere; keep theirs.
		s.deleteFile(name)
		return existing, nil
	}

	s.logger.Infow("rendition created",
		"image_id", img.ID,
		"filter_spec", resolved,
		"file", name,
		"width", res.Width,
		"height", res.Height,
	)
	return r, nil
}

// GetRenditionOrNotFound is GetRendition, except that a missing original
// yields a NotFound placeholder instead of an error.
func (s *Service) GetRenditionOrNotFound(ctx context.Context, img *Image, spec string) (*Rendition, error) {
	r, err := s.GetRendition(ctx, img, spec)
	if filter.IsSourceImageIO(err) {
		s.logger.Errorw("source image missing", "image_id", img.ID, "file", img.File, "error", err)
		return NotFound(img, spec), nil
	}
	return r, err
}

// Renditions lists the stored renditions of img.
func (s *Service) Renditions(ctx context.Context, img *Image) ([]*Rendition, error) {
	return s.store.List(ctx, img.ID)
}

// ClearRenditions deletes every rendition of img and its file.
func (s *Service) ClearRenditions(ctx context.Context, img *Image) error {
	removed, err := s.store.DeleteAll(ctx, img.ID)
	if err != nil {
		return err
	}

	for _, r := range removed {
		err = multierr.Append(err, s.storage.Delete(r.File))
	}
	return err
}

// DefaultSpecs returns the specs CreateDefaultRenditions renders: the
// configured defaults followed by the thumbnail spec, if any.
func (s *Service) DefaultSpecs() []string {
	specs := append([]string(nil), s.defaultSpecs...)
	if s.thumbnailSpec != "" {
		specs = append(specs, s.thumbnailSpec)
	}
	return specs
}

// CreateDefaultRenditions renders DefaultSpecs for img, first clearing its
// existing renditions when configured to.
//
// A missing original is logged and stops the run without an error. Other
// failures do not stop the remaining specs; they are returned combined.
func (s *Service) CreateDefaultRenditions(ctx context.Context, img *Image) error {
	var errs error

	if s.clearOnSave {
		if err := s.ClearRenditions(ctx, img); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to clear renditions of image %d: %w", img.ID, err))
		}
	}

	for _, spec := range s.DefaultSpecs() {
		_, err := s.GetRendition(ctx, img, spec)
		if filter.IsSourceImageIO(err) {
			s.logger.Errorw("source image missing", "image_id", img.ID, "file", img.File, "error", err)
			break
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rendition %q of image %d: %w", spec, img.ID, err))
		}
	}

	return errs
}

// RegenerateAll runs CreateDefaultRenditions for each image. progress, if
// not nil, is called after each image with the count done so far.
//
// It stops early only when ctx is done.
func (s *Service) RegenerateAll(ctx context.Context, images []*Image, progress func(done, total int)) error {
	var errs error

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		errs = multierr.Append(errs, s.CreateDefaultRenditions(ctx, img))
		if progress != nil {
			progress(i+1, len(images))
		}
	}

	s.logger.Infow("renditions regenerated", "images", len(images), "errors", len(multierr.Errors(errs)))
	return errs
}

// ImportImage validates and stores a new original read from r under
// img.File's base name, fills in img's File, Width and Height, and creates
// its default renditions.
//
// The returned error is non-nil if the image could not be stored; failed
// default renditions are logged.
func (s *Service) ImportImage(ctx context.Context, img *Image, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	if err := ValidateFileExtension(img.File, data, s.allowedExts); err != nil {
		return err
	}

	width, height, err := s.imageSize(data)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	name, err := s.storage.Save(path.Join(OriginalsDir, path.Base(img.File)), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	img.File = name
	img.Width, img.Height = width, height

	s.logger.Infow("image imported", "image_id", img.ID, "file", name, "width", img.Width, "height", img.Height)

	if err := s.CreateDefaultRenditions(ctx, img); err != nil {
		s.logger.Errorw("failed to create default renditions", "image_id", img.ID, "error", err)
	}
	return nil
}

// dimensionReader is implemented by backends that can read an image's size
// from its header.
type dimensionReader interface {
	Dimensions(data []byte) (width, height int, err error)
}

func (s *Service) imageSize(data []byte) (int, int, error) {
	if dr, ok := s.backend.(dimensionReader); ok {
		return dr.Dimensions(data)
	}
	h, err := s.backend.Open(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	width, height := h.Size()
	return width, height, nil
}

// DeleteImage removes img's renditions and its original file.
func (s *Service) DeleteImage(ctx context.Context, img *Image) error {
	return multierr.Combine(
		s.ClearRenditions(ctx, img),
		s.storage.Delete(img.File),
	)
}

func (s *Service) deleteFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		s.logger.Errorw("failed to delete rendition file", "file", name, "error", err)
	}
}
