package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/justyntemme/webby-pdf/pkg/models"
)

const (
	AppName           = "webby-pdf"
	configFileName    = "config.yaml"
	stateFileName     = "state.db"
	MaxRecentlyOpened = 10 // Maximum number of recently opened documents to track

	// MemoryStorage selects the in-memory bookmark storage
	MemoryStorage = "memory"

	DefaultTheme            = "dark"
	DefaultInitialScale     = 0.6
	DefaultScaleStep        = 0.1
	DefaultPageDebounce     = 500 * time.Millisecond
	DefaultTranslationDelay = 800 * time.Millisecond
)

// Scale limits, mirrored from the viewer
const (
	minScale = 0.3
	maxScale = 2.5
)

// RecentlyOpenedEntry represents a recently opened document
type RecentlyOpenedEntry struct {
	DocumentID string    `yaml:"document_id"`
	Path       string    `yaml:"path"`
	Title      string    `yaml:"title"`
	OpenedAt   time.Time `yaml:"opened_at"`
}

type (
	ViewerConfig struct {
		InitialScale float64       `yaml:"initial_scale"`
		ScaleStep    float64       `yaml:"scale_step"`
		PageDebounce time.Duration `yaml:"page_debounce"`
		ShowSidebar  bool          `yaml:"show_sidebar"`
	}

	BookmarksConfig struct {
		Scope string `yaml:"scope"`
	}

	StorageConfig struct {
		Path string `yaml:"path"`
	}

	TranslationConfig struct {
		Delay time.Duration `yaml:"delay"`
	}

	// Config holds the application configuration
	Config struct {
		Theme          string                `yaml:"theme"`
		Viewer         ViewerConfig          `yaml:"viewer"`
		Bookmarks      BookmarksConfig       `yaml:"bookmarks"`
		Storage        StorageConfig         `yaml:"storage"`
		Translation    TranslationConfig     `yaml:"translation"`
		Logging        LoggingConfig         `yaml:"logging"`
		RecentlyOpened []RecentlyOpenedEntry `yaml:"recently_opened,omitempty"`

		// Path to config file (not persisted)
		path string
	}
)

// Default returns configuration with all defaults applied
func Default() *Config {
	return &Config{
		Theme: DefaultTheme,
		Viewer: ViewerConfig{
			InitialScale: DefaultInitialScale,
			ScaleStep:    DefaultScaleStep,
			PageDebounce: DefaultPageDebounce,
			ShowSidebar:  true,
		},
		Bookmarks:   BookmarksConfig{Scope: "document"},
		Translation: TranslationConfig{Delay: DefaultTranslationDelay},
		Logging:     LoggingConfig{Level: "none"},
	}
}

// Load loads configuration from path, or from the default location when path
// is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		var err error
		if path, err = getConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// Config doesn't exist, return defaults
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := unmarshalConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration file '%s': %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration file '%s': %w", path, err)
	}
	return cfg, nil
}

func unmarshalConfig(data []byte, cfg *Config) error {
	// only fields we defined are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var err error
	if c.Viewer.InitialScale < minScale || c.Viewer.InitialScale > maxScale {
		err = multierr.Append(err, fmt.Errorf("viewer.initial_scale must be within [%.1f, %.1f], got %v", minScale, maxScale, c.Viewer.InitialScale))
	}
	if c.Viewer.ScaleStep <= 0 || c.Viewer.ScaleStep > maxScale-minScale {
		err = multierr.Append(err, fmt.Errorf("viewer.scale_step must be within (0, %.1f], got %v", maxScale-minScale, c.Viewer.ScaleStep))
	}
	if c.Viewer.PageDebounce <= 0 {
		err = multierr.Append(err, fmt.Errorf("viewer.page_debounce must be positive, got %v", c.Viewer.PageDebounce))
	}
	switch c.Bookmarks.Scope {
	case "document", "global":
	default:
		err = multierr.Append(err, fmt.Errorf("bookmarks.scope must be one of document, global, got '%s'", c.Bookmarks.Scope))
	}
	if c.Translation.Delay < 0 {
		err = multierr.Append(err, fmt.Errorf("translation.delay must not be negative, got %v", c.Translation.Delay))
	}
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level must be one of none, normal, debug, got '%s'", c.Logging.Level))
	}
	return err
}

// Path returns the file this configuration is loaded from and saved to
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding configuration and state
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// StoragePath returns where bookmarks are kept, or MemoryStorage
func (c *Config) StoragePath() string {
	switch c.Storage.Path {
	case "":
		return filepath.Join(c.Dir(), stateFileName)
	case MemoryStorage:
		return MemoryStorage
	default:
		return c.Storage.Path
	}
}

// LogPath returns the log file destination
func (c *Config) LogPath() string {
	if len(c.Logging.Destination) > 0 {
		return c.Logging.Destination
	}
	return filepath.Join(c.Dir(), AppName+".log")
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	// Ensure directory exists
	if err := os.MkdirAll(c.Dir(), 0700); err != nil {
		return err
	}

	data, err := c.Dump()
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// Dump returns the configuration as YAML
func (c *Config) Dump() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// AddRecentlyOpened moves doc to the front of the recently opened list and saves
func (c *Config) AddRecentlyOpened(doc *models.Document) error {
	// Remove existing entry for this document if present
	newList := make([]RecentlyOpenedEntry, 0, MaxRecentlyOpened)
	for _, entry := range c.RecentlyOpened {
		if entry.DocumentID != doc.ID && entry.Path != doc.Path {
			newList = append(newList, entry)
		}
	}

	// Add new entry at the front
	entry := RecentlyOpenedEntry{
		DocumentID: doc.ID,
		Path:       doc.Path,
		Title:      doc.Title,
		OpenedAt:   doc.OpenedAt,
	}
	if entry.OpenedAt.IsZero() {
		entry.OpenedAt = time.Now()
	}
	c.RecentlyOpened = append([]RecentlyOpenedEntry{entry}, newList...)

	// Trim to max size
	if len(c.RecentlyOpened) > MaxRecentlyOpened {
		c.RecentlyOpened = c.RecentlyOpened[:MaxRecentlyOpened]
	}

	return c.Save()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, AppName, configFileName), nil
}
