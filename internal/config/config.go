package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Sim         SimConfig         `mapstructure:"sim"`
	UI          UIConfig          `mapstructure:"ui"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// ServerConfig holds the spectator server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	LogFormat             string `mapstructure:"log_format"`
	MaxMatches            int    `mapstructure:"max_matches"`
	MoveIntervalMs        int    `mapstructure:"move_interval_ms"`
	FinishedTTLSeconds    int    `mapstructure:"finished_ttl_seconds"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// ArchiveConfig holds match archive settings
type ArchiveConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Path        string `mapstructure:"path"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

// SimConfig holds automated playout settings
type SimConfig struct {
	Players  int `mapstructure:"players"`
	MaxMoves int `mapstructure:"max_moves"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window WindowConfig `mapstructure:"window"`
	Board  BoardConfig  `mapstructure:"board"`
	Audio  AudioConfig  `mapstructure:"audio"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// BoardConfig holds board rendering settings
type BoardConfig struct {
	CellSize    int `mapstructure:"cell_size"`
	WaveDelayMs int `mapstructure:"wave_delay_ms"`
}

// AudioConfig holds sound settings
type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Volume     float64 `mapstructure:"volume"`
	SampleRate int     `mapstructure:"sample_rate"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ShowFPS        bool `mapstructure:"show_fps"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.max_matches", 64)
	v.SetDefault("server.move_interval_ms", 250)
	v.SetDefault("server.finished_ttl_seconds", 300)
	v.SetDefault("server.graceful_shutdown_delay", 5)

	// Archive defaults
	v.SetDefault("archive.enabled", true)
	v.SetDefault("archive.path", "colorwar.db")
	v.SetDefault("archive.recent_limit", 20)

	// Sim defaults
	v.SetDefault("sim.players", 2)
	v.SetDefault("sim.max_moves", 10000)

	// UI defaults
	v.SetDefault("ui.window.width", 640)
	v.SetDefault("ui.window.height", 720)
	v.SetDefault("ui.window.title", "Color War")
	v.SetDefault("ui.board.cell_size", 80)
	v.SetDefault("ui.board.wave_delay_ms", 100)
	v.SetDefault("ui.audio.enabled", true)
	v.SetDefault("ui.audio.volume", 0.8)
	v.SetDefault("ui.audio.sample_rate", 44100)

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_fps", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/colorwar")
	}

	// Set environment variable prefix
	v.SetEnvPrefix("COLORWAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and environment carry the
		// configuration. Anything else is a real problem.
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Unmarshal into config struct
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Validate configuration
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		// Re-unmarshal on change
		v.Unmarshal(cfg)
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate server configuration
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MaxMatches <= 0 {
		return fmt.Errorf("server.max_matches must be positive")
	}
	if c.Server.MoveIntervalMs <= 0 {
		return fmt.Errorf("server.move_interval_ms must be positive")
	}
	if c.Server.FinishedTTLSeconds < 0 {
		return fmt.Errorf("server.finished_ttl_seconds must be non-negative")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}

	// Validate archive configuration
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive.path must be set when the archive is enabled")
	}
	if c.Archive.RecentLimit <= 0 {
		return fmt.Errorf("archive.recent_limit must be positive")
	}

	// Validate sim configuration
	if c.Sim.Players < 2 || c.Sim.Players > 4 {
		return fmt.Errorf("sim.players must be between 2 and 4")
	}
	if c.Sim.MaxMoves <= 0 {
		return fmt.Errorf("sim.max_moves must be positive")
	}

	// Validate UI configuration
	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.Board.CellSize <= 0 {
		return fmt.Errorf("ui.board.cell_size must be positive")
	}
	if c.UI.Board.WaveDelayMs < 0 {
		return fmt.Errorf("ui.board.wave_delay_ms must be non-negative")
	}
	if c.UI.Audio.Volume < 0 || c.UI.Audio.Volume > 1 {
		return fmt.Errorf("ui.audio.volume must be between 0 and 1")
	}
	if c.UI.Audio.SampleRate <= 0 {
		return fmt.Errorf("ui.audio.sample_rate must be positive")
	}

	return nil
}
