package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = "gallery.yaml"

// DefaultPriority is the category order used when none is configured
var DefaultPriority = []string{"fanart", "concept_art", "character_design", "animals", "food", "random"}

// DefaultExtensions are the image extensions included in the manifest
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// Config holds all configuration for the application
type Config struct {
	ImagesDir  string        `yaml:"images_dir"`
	OutputFile string        `yaml:"output"`
	Priority   []string      `yaml:"priority"`
	Extensions []string      `yaml:"extensions"`
	HTMLOutput string        `yaml:"html_output"`
	Template   string        `yaml:"template"`
	BucketName string        `yaml:"bucket"`
	ObjectName string        `yaml:"object"`
	Port       string        `yaml:"port"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// ErrImagesDirNotSet is returned when no image directory is configured
var ErrImagesDirNotSet = errors.New("IMAGES_DIR must not be empty")

// ErrBucketNameNotSet is returned when the BUCKET_NAME environment variable is not set
var ErrBucketNameNotSet = errors.New("BUCKET_NAME environment variable not set")

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		ImagesDir:  "images",
		OutputFile: "data/gallery.json",
		Priority:   append([]string(nil), DefaultPriority...),
		Extensions: append([]string(nil), DefaultExtensions...),
		ObjectName: "data/gallery.json",
		Port:       "8080",
		CacheTTL:   5 * time.Minute,
	}
}

// Load loads configuration from the config file and environment variables.
// An empty path means DefaultFile, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.readFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, err
		}
	} else {
		log.WithField("file", path).Debug("Using config file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.ImagesDir == "" {
		return nil, ErrImagesDirNotSet
	}
	if cfg.OutputFile == "" {
		return nil, errors.New("OUTPUT_FILE must not be empty")
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("IMAGES_DIR"); v != "" {
		c.ImagesDir = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv("GALLERY_PRIORITY"); v != "" {
		c.Priority = splitList(v)
	}
	if v := os.Getenv("IMAGE_EXTENSIONS"); v != "" {
		c.Extensions = splitList(v)
	}
	if v := os.Getenv("HTML_OUTPUT"); v != "" {
		c.HTMLOutput = v
	}
	if v := os.Getenv("TEMPLATE_FILE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("BUCKET_NAME"); v != "" {
		c.BucketName = v
	}
	if v := os.Getenv("OBJECT_NAME"); v != "" {
		c.ObjectName = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = ttl
	}
	return nil
}

// RequireBucket checks that a bucket is configured for publishing
func (c *Config) RequireBucket() error {
	if c.BucketName == "" {
		return ErrBucketNameNotSet
	}
	return nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting preview server at port %s\n", c.Port)
	fmt.Printf("Index URL: http://localhost:%s/index\n", c.Port)
	fmt.Printf("Feed URL: http://localhost:%s/feed\n", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
