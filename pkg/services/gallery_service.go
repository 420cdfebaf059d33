package services

import (
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"image-gallery/pkg/config"
	"image-gallery/pkg/models"
)

const galleryCacheKey = "gallery"

// Service handles building, writing and publishing the gallery manifest
type Service struct {
	config       *config.Config
	scanner      *Scanner
	galleryCache *cache.Cache
	mu           sync.RWMutex
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// NewService creates a service for the given configuration
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:       cfg,
		scanner:      NewScanner(cfg.Extensions, cfg.Priority),
		galleryCache: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// InitService initializes the service with the given configuration
func InitService(cfg *config.Config) {
	once.Do(func() {
		defaultService = NewService(cfg)
	})
}

// Default returns the service created by InitService
func Default() *Service {
	return defaultService
}

// GetGallery returns the gallery, built at most once per cache period
func GetGallery() (models.Gallery, error) {
	return defaultService.GetGalleryInternal()
}

// GetCategory returns a category by its id
func GetCategory(id string) (models.Category, error) {
	return defaultService.GetCategoryInternal(id)
}

// Generate builds the gallery and writes the manifest
func Generate() (models.Gallery, error) {
	return defaultService.Generate()
}

// Refresh drops the cached gallery
func Refresh() {
	defaultService.Refresh()
}

// Build scans the image directory without touching the cache or any output
func (s *Service) Build() (models.Gallery, error) {
	log.WithField("dir", s.config.ImagesDir).Debug("Scanning images")
	return s.scanner.Scan(s.config.ImagesDir)
}

// GetGalleryInternal returns the gallery, built at most once per cache period.
// A cache period of zero rebuilds on every call.
func (s *Service) GetGalleryInternal() (models.Gallery, error) {
	if s.config.CacheTTL <= 0 {
		return s.Build()
	}

	s.mu.RLock()
	if cached, found := s.galleryCache.Get(galleryCacheKey); found {
		s.mu.RUnlock()
		log.Debug("Using cached gallery")
		return cached.(models.Gallery), nil
	}
	s.mu.RUnlock()

	gallery, err := s.Build()
	if err != nil {
		return models.Gallery{}, err
	}

	s.mu.Lock()
	s.galleryCache.Set(galleryCacheKey, gallery, cache.DefaultExpiration)
	s.mu.Unlock()

	return gallery, nil
}

// GetCategoryInternal returns a category by its id
func (s *Service) GetCategoryInternal(id string) (models.Category, error) {
	gallery, err := s.GetGalleryInternal()
	if err != nil {
		return models.Category{}, err
	}
	return gallery.Find(id)
}

// Generate builds the gallery from scratch and writes the manifest, plus the
// HTML index when one is configured. Nothing is written if the build fails.
func (s *Service) Generate() (models.Gallery, error) {
	gallery, err := s.Build()
	if err != nil {
		return models.Gallery{}, err
	}

	if err := WriteManifest(s.config.OutputFile, gallery); err != nil {
		return models.Gallery{}, err
	}
	log.WithField("file", s.config.OutputFile).Debug("Wrote manifest")

	if s.config.HTMLOutput != "" {
		if err := WriteIndex(s.config.HTMLOutput, s.Index(gallery), s.config.Template); err != nil {
			return models.Gallery{}, err
		}
		log.WithField("file", s.config.HTMLOutput).Debug("Wrote index")
	}

	s.mu.Lock()
	s.galleryCache.Set(galleryCacheKey, gallery, cache.DefaultExpiration)
	s.mu.Unlock()

	return gallery, nil
}

// Index returns the index page data for the gallery
func (s *Service) Index(gallery models.Gallery) models.Index {
	return NewIndex(gallery, filepath.ToSlash(s.config.ImagesDir))
}

// Template returns the configured index template file, empty for the default
func (s *Service) Template() string {
	return s.config.Template
}

// Refresh drops the cached gallery
func (s *Service) Refresh() {
	s.mu.Lock()
	s.galleryCache.Flush()
	s.mu.Unlock()
}
