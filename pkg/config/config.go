// Package config loads and saves bujo's settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/bujo/pkg/collection"
)

// Environment variables that override the config file.
const (
	EnvVault  = "BUJO_VAULT"
	EnvConfig = "BUJO_CONFIG"
)

// Config is the full bujo configuration.
type Config struct {
	// Vault is the root directory of the notes.
	Vault string `yaml:"vault" json:"vault" mapstructure:"vault"`

	// Zone is used for dates written without a zone. Empty means local time.
	Zone string `yaml:"zone,omitempty" json:"zone,omitempty" mapstructure:"zone"`

	PeriodicLogs []collection.Settings `yaml:"periodic_logs" json:"periodic_logs" mapstructure:"periodic_logs"`
}

// DefaultVault returns ~/notes.
func DefaultVault() string {
	return ExpandHome("~/notes")
}

// DefaultPeriodicLogs returns daily, weekly and monthly logs named the way
// Obsidian's periodic notes name them.
func DefaultPeriodicLogs() []collection.Settings {
	return []collection.Settings{
		{ID: "daily", Label: "Daily", Folder: "Daily", DateFormat: "2006-01-02", IntervalDuration: "P1D"},
		{ID: "weekly", Label: "Weekly", Folder: "Weekly", DateFormat: "GGGG-'W'WW", IntervalDuration: "P1W"},
		{ID: "monthly", Label: "Monthly", Folder: "Monthly", DateFormat: "2006-01", IntervalDuration: "P1M"},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Vault:        DefaultVault(),
		PeriodicLogs: DefaultPeriodicLogs(),
	}
}

// Load reads the config file at path, falling back to defaults when it does
// not exist. BUJO_VAULT overrides the vault.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("vault", DefaultVault())
	v.SetDefault("zone", "")
	if err := v.BindEnv("vault", EnvVault); err != nil {
		return nil, fmt.Errorf("binding %s: %w", EnvVault, err)
	}

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if !v.IsSet("periodic_logs") {
		cfg.PeriodicLogs = DefaultPeriodicLogs()
	}
	cfg.Vault = ExpandHome(cfg.Vault)
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	return writeFile(path, data)
}

const defaultHeader = `# bujo configuration
#
# periodic_logs map note files to the interval of time they cover.
#   date_format:        Go reference layout (2006-01-02) or ISO week layout (GGGG-'W'WW)
#   interval_duration:  ISO 8601 period (P1D, P2W, P1M) or Go duration (36h)
#   interval_offset:    shift from the parsed date to the interval start, may be negative
#   zone:               IANA zone for parsing file names, default local time
`

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	return writeFile(path, append([]byte(defaultHeader), data...))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Collections builds the configured periodic logs. Every invalid log is
// reported; the zone of the config applies to logs that set none.
func (c *Config) Collections() ([]*collection.PeriodicNotes, error) {
	var (
		out  []*collection.PeriodicNotes
		errs []error
	)
	for _, s := range c.PeriodicLogs {
		if s.Zone == "" {
			s.Zone = c.Zone
		}
		p, err := collection.New(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Location returns the zone dates without one are read in.
func (c *Config) Location() (*time.Location, error) {
	if c.Zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return nil, fmt.Errorf("config zone: %w", err)
	}
	return loc, nil
}
