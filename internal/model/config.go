package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GridConfig bounds the visible time window of the calendar grid.
// Drag-relocated tasks are clamped to this window.
type GridConfig struct {
	// StartHour and EndHour bound the visible day, 24h clock.
	StartHour int `mapstructure:"start_hour" yaml:"start_hour"`
	EndHour   int `mapstructure:"end_hour" yaml:"end_hour"`

	// SnapMinutes is the granularity relocated start times snap to.
	SnapMinutes int `mapstructure:"snap_minutes" yaml:"snap_minutes"`
}

// SchedulerConfig tunes the reminder evaluation loop. The tick interval
// is a tunable, not a correctness property; it only needs to stay under
// the minimum lead time so no reminder window is skipped entirely.
type SchedulerConfig struct {
	TickSeconds int `mapstructure:"tick_seconds" yaml:"tick_seconds"`
}

// NotifyConfig configures the delivery channel.
type NotifyConfig struct {
	// SoundFile is the clip played with reminders unless muted.
	SoundFile string `mapstructure:"sound_file" yaml:"sound_file"`

	// QueueSize bounds the dispatcher's in-flight delivery requests.
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
}

// ImportConfig configures the external calendar importers.
type ImportConfig struct {
	// IMAPHost/IMAPPort point at the mailbox scanned for calendar
	// invites. Credentials live in the system keyring, not here.
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string `mapstructure:"imap_port" yaml:"imap_port"`
	IMAPUser string `mapstructure:"imap_user" yaml:"imap_user"`
	IMAPTLS  bool   `mapstructure:"imap_tls" yaml:"imap_tls"`
}

// AppConfig is the top-level static configuration. User-mutable
// preferences (notification defaults, lead time, mute) are store state
// instead; see Settings.
type AppConfig struct {
	DBPath    string          `mapstructure:"db_path" yaml:"db_path"`
	Grid      GridConfig      `mapstructure:"grid" yaml:"grid"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify" yaml:"notify"`
	Import    ImportConfig    `mapstructure:"import" yaml:"import"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/planr/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "planr", "config.yaml")
}

// defaultDBPath places the database next to the config file.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "planr.db")
	}
	return filepath.Join(home, ".config", "planr", "planr.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath: defaultDBPath(),
		Grid: GridConfig{
			StartHour:   0,
			EndHour:     24,
			SnapMinutes: 1,
		},
		Scheduler: SchedulerConfig{
			TickSeconds: 15,
		},
		Notify: NotifyConfig{
			QueueSize: 16,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("grid.start_hour", 0)
	v.SetDefault("grid.end_hour", 24)
	v.SetDefault("grid.snap_minutes", 1)
	v.SetDefault("scheduler.tick_seconds", 15)
	v.SetDefault("notify.queue_size", 16)
	v.SetDefault("import.imap_port", "993")
	v.SetDefault("import.imap_tls", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("grid", cfg.Grid)
	v.Set("scheduler", cfg.Scheduler)
	v.Set("notify", cfg.Notify)
	v.Set("import", cfg.Import)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func (c *AppConfig) validate() error {
	if c.Grid.StartHour < 0 || c.Grid.StartHour > 23 {
		return fmt.Errorf("grid start_hour %d out of range", c.Grid.StartHour)
	}
	if c.Grid.EndHour < 1 || c.Grid.EndHour > 24 {
		return fmt.Errorf("grid end_hour %d out of range", c.Grid.EndHour)
	}
	if c.Grid.EndHour <= c.Grid.StartHour {
		return fmt.Errorf(
			"grid end_hour %d must be after start_hour %d",
			c.Grid.EndHour, c.Grid.StartHour,
		)
	}
	if c.Grid.SnapMinutes < 1 {
		c.Grid.SnapMinutes = 1
	}
	if c.Scheduler.TickSeconds < 1 {
		c.Scheduler.TickSeconds = 15
	}
	if c.Notify.QueueSize < 1 {
		c.Notify.QueueSize = 16
	}
	return nil
}
