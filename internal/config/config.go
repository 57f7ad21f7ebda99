package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tzkit/internal/datetime"
	"tzkit/internal/locale"
	appLog "tzkit/internal/log"
)

const (
	defaultLocale    = "en-GB"
	defaultStyle     = "full"
	defaultLogLevel  = "info"
	defaultPathEnv   = "TZKIT_CONFIG"
	defaultPathValue = "./tzkit.yaml"
)

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone used as the local zone (e.g. "America/Chicago").
	// Empty means the host zone (TZ, then /etc/localtime).
	Timezone string `yaml:"timezone"`

	// Locale is the BCP 47 tag used for locale formatting.
	Locale string `yaml:"locale"`

	// DateStyle / TimeStyle are one of full, long, medium, short.
	DateStyle string `yaml:"date_style"`
	TimeStyle string `yaml:"time_style"`

	// Hour12 overrides the locale's 12/24-hour default when set.
	Hour12 *bool `yaml:"hour12,omitempty"`

	// ZoneInfoDir, if set, is a zoneinfo tree read instead of the host database.
	ZoneInfoDir string `yaml:"zoneinfo_dir,omitempty"`

	// LogLevel is debug, info or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	hour12 := true
	return &Config{
		Locale:    defaultLocale,
		DateStyle: defaultStyle,
		TimeStyle: defaultStyle,
		Hour12:    &hour12,
		LogLevel:  defaultLogLevel,
	}
}

// Normalize fills in missing values and resets unknown ones so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	c.DateStyle = normalizeStyle(c.DateStyle)
	c.TimeStyle = normalizeStyle(c.TimeStyle)

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = defaultLogLevel
	}
}

func normalizeStyle(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "full", "long", "medium", "short":
		return s
	default:
		return defaultStyle
	}
}

// Path returns the config path from TZKIT_CONFIG, or ./tzkit.yaml.
func Path() string {
	if p := os.Getenv(defaultPathEnv); p != "" {
		return p
	}
	return defaultPathValue
}

// ErrInvalid marks a config whose timezone or locale cannot be resolved.
var ErrInvalid = errors.New("config: invalid")

// Validate checks that Timezone names a zone db can load and that Locale
// resolves to a supported locale in p. An empty Timezone is valid (host zone).
func (c *Config) Validate(db *datetime.ZoneDB, p locale.Provider) error {
	var errs []error
	if c.Timezone != "" {
		if _, err := db.Load(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("%w: timezone: %w", ErrInvalid, err))
		}
	}
	if _, err := p.Lookup(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("%w: locale: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// Load reads the YAML config at path, normalizes it, and checks its zone
// against the zoneinfo tree it names and its locale against the built-in
// registry. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg, err := decode(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = DefaultConfig()
		appLog.Info("writing default config", "config_path", path)
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
	case err != nil:
		return nil, err
	}

	if err := cfg.Validate(datetime.NewZoneDB(cfg.ZoneInfoDir), locale.Default()); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save normalizes cfg and writes it to path with 0600 permissions, creating
// the parent directory (0700) if needed. Readers never see a partial file.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data to a sibling temp file and renames it over path.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tzkit-config-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *Config) Save(path string) error { return Save(path, c) }
