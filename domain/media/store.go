package media

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/ui/images"
)

// DefaultCacheSize bounds the number of decoded images kept in memory.
const DefaultCacheSize = 64

// Fetcher downloads the bytes behind a gateway reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Store resolves references to decoded images, caching the results so that
// playback ticks only ever touch memory. Safe for concurrent use.
type Store struct {
	fetcher Fetcher
	cache   *lru.Cache[string, image.Image]
	logger  *slog.Logger
}

// NewStore builds a store. A non-positive size uses DefaultCacheSize.
func NewStore(fetcher Fetcher, size int, logger *slog.Logger) *Store {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Store{fetcher: fetcher, cache: cache, logger: logger}
}

// Image returns the decoded image behind ref.
func (s *Store) Image(ctx context.Context, ref string) (image.Image, error) {
	if img, ok := s.cache.Get(ref); ok {
		return img, nil
	}
	data, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := images.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("media %s: %w", ref, err)
	}
	s.cache.Add(ref, img)
	if s.logger != nil {
		s.logger.Debug("media cached", "ref", ref, "size", humanize.Bytes(uint64(len(data))), "bounds", img.Bounds().String())
	}
	return img, nil
}

// Preload fetches every ref, stopping at the first failure. The decoded
// images are returned in ref order so callers can hold a sequence longer
// than the cache.
func (s *Store) Preload(ctx context.Context, refs []string) ([]image.Image, error) {
	out := make([]image.Image, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := s.Image(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// Purge drops every cached image.
func (s *Store) Purge() {
	n := s.cache.Len()
	s.cache.Purge()
	if s.logger != nil && n > 0 {
		s.logger.Debug("media cache purged", "entries", n)
	}
}

// Len reports the number of cached images.
func (s *Store) Len() int { return s.cache.Len() }

// LoadFile reads a local file as an upload.
func LoadFile(path string) (gateway.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gateway.Media{}, err
	}
	if len(data) == 0 {
		return gateway.Media{}, fmt.Errorf("%s: empty file", path)
	}
	return gateway.Media{Name: filepath.Base(path), Data: data}, nil
}

// Describe summarises an upload for status lines, e.g. "cat.png (1.2 MB)".
func Describe(m gateway.Media) string {
	return fmt.Sprintf("%s (%s)", m.Name, humanize.Bytes(uint64(len(m.Data))))
}
