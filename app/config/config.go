package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Download DownloadConfig `yaml:"download" mapstructure:"download"`
	YtDlp    YtDlpConfig    `yaml:"ytdlp" mapstructure:"ytdlp"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	path     string
}

type LoggingConfig struct {
	Level             string `yaml:"level" mapstructure:"level"`
	LogPath           string `yaml:"log_path" mapstructure:"log_path"`
	EnableFileLogging bool   `yaml:"enable_file_logging" mapstructure:"enable_file_logging"`
}

type PathsConfig struct {
	DownloadPath   string `yaml:"download_path" mapstructure:"download_path"`
	DownloaderPath string `yaml:"downloader_path" mapstructure:"downloader_path"`
	FFmpegPath     string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
}

type ResolverConfig struct {
	// youtube or ytdlp
	Backend string `yaml:"backend" mapstructure:"backend"`
}

type DownloadConfig struct {
	Concurrency  int  `yaml:"concurrency" mapstructure:"concurrency"`
	CleanupRaw   bool `yaml:"cleanup_raw" mapstructure:"cleanup_raw"`
	ProgressBars bool `yaml:"progress_bars" mapstructure:"progress_bars"`
}

type YtDlpConfig struct {
	AutoUpdate bool     `yaml:"auto_update" mapstructure:"auto_update"`
	ExtraArgs  []string `yaml:"extra_args" mapstructure:"extra_args"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

const (
	BackendYouTube = "youtube"
	BackendYtDlp   = "ytdlp"
)

var (
	instance     *Config
	instanceOnce sync.Once
)

func Instance() *Config {
	if instance == nil {
		instanceOnce.Do(func() {
			instance = &Config{}
		})
	}
	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.download_path", "~/Downloads/media_downloads")
	v.SetDefault("paths.downloader_path", "yt-dlp")
	v.SetDefault("paths.ffmpeg_path", "ffmpeg")
	v.SetDefault("resolver.backend", BackendYouTube)
	v.SetDefault("download.concurrency", 1)
	v.SetDefault("download.cleanup_raw", false)
	v.SetDefault("download.progress_bars", true)
	v.SetDefault("ytdlp.auto_update", false)
	v.SetDefault("ytdlp.extra_args", []string{})
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.log_path", "yt-media-dl.log")
	v.SetDefault("logging.enable_file_logging", false)
	v.SetDefault("http.timeout", time.Duration(0))
}

// Load reads the YAML file at path into the shared instance. A missing file
// leaves the defaults in place, environment variables prefixed with MEDIADL
// override both (MEDIADL_PATHS_DOWNLOAD_PATH, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("MEDIADL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		slog.Debug("config file not found, using defaults", slog.String("path", path))
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := loaded.validate(); err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	loaded.path = path

	cfg := Instance()
	*cfg = loaded
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Resolver.Backend {
	case BackendYouTube, BackendYtDlp:
	default:
		return fmt.Errorf("config: unknown resolver backend %q", c.Resolver.Backend)
	}
	if c.Download.Concurrency < 1 {
		c.Download.Concurrency = 1
	}
	return nil
}

// Dump renders the effective configuration as YAML.
func (c *Config) Dump() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// Path of the directory containing the config file
func (c *Config) Dir() string { return filepath.Dir(c.path) }

// Absolute path of the config file
func (c *Config) Path() string { return c.path }
