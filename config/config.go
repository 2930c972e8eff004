package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/soocke/dualcam-monitor/assets"
)

// EnvPrefix prefixes environment overrides, e.g. DUALCAM_BASE_URL.
const EnvPrefix = "DUALCAM"

// Intervals are the polling and housekeeping periods.
type Intervals struct {
	CameraStatus time.Duration `mapstructure:"camera_status"`
	Segmentation time.Duration `mapstructure:"segmentation"`
	Alarms       time.Duration `mapstructure:"alarms"`
	Activity     time.Duration `mapstructure:"activity"`
	Export       time.Duration `mapstructure:"export"`
	RuntimeStats time.Duration `mapstructure:"runtime_stats"`
}

// UI holds window settings for the desktop view.
type UI struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Dark   bool   `mapstructure:"dark"`
}

// Camera prefills the connection form of one camera slot.
type Camera struct {
	Address  string `mapstructure:"address"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Stream   string `mapstructure:"stream"`
}

// Config holds runtime configuration. It is loaded from the embedded defaults,
// an optional YAML file and DUALCAM_* environment variables, in that order.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	Debug          bool          `mapstructure:"debug"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`

	Intervals Intervals `mapstructure:"intervals"`

	NotificationTTL      time.Duration `mapstructure:"notification_ttl"`
	EvaluateRefreshDelay time.Duration `mapstructure:"evaluate_refresh_delay"`
	HighlightDuration    time.Duration `mapstructure:"highlight_duration"`

	UI      UI                `mapstructure:"ui"`
	Cameras map[string]Camera `mapstructure:"cameras"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://127.0.0.1:5000",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
		Intervals: Intervals{
			CameraStatus: 2 * time.Second,
			Segmentation: 2 * time.Second,
			Alarms:       5 * time.Second,
			Activity:     time.Second,
			Export:       30 * time.Second,
			RuntimeStats: 10 * time.Second,
		},
		NotificationTTL:      5 * time.Second,
		EvaluateRefreshDelay: 300 * time.Millisecond,
		HighlightDuration:    500 * time.Millisecond,
		UI:                   UI{Title: "Dual Camera Monitor", Width: 1100, Height: 760},
		Cameras: map[string]Camera{
			"camera1": {Port: "554", Stream: "Streaming/Channels/101"},
			"camera2": {Port: "554", Stream: "Streaming/Channels/101"},
		},
	}
}

// Validate clamps/normalizes values to safe ranges. Only an unusable base URL is
// reported as an error.
func (c *Config) Validate() error {
	d := DefaultConfig()
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	positive(&c.RequestTimeout, d.RequestTimeout)
	positive(&c.Intervals.CameraStatus, d.Intervals.CameraStatus)
	positive(&c.Intervals.Segmentation, d.Intervals.Segmentation)
	positive(&c.Intervals.Alarms, d.Intervals.Alarms)
	positive(&c.Intervals.Activity, d.Intervals.Activity)
	positive(&c.Intervals.Export, d.Intervals.Export)
	positive(&c.Intervals.RuntimeStats, d.Intervals.RuntimeStats)
	positive(&c.NotificationTTL, d.NotificationTTL)
	positive(&c.HighlightDuration, d.HighlightDuration)
	if c.EvaluateRefreshDelay < 0 {
		c.EvaluateRefreshDelay = d.EvaluateRefreshDelay
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat != "text" {
		c.LogFormat = "json"
	}
	if c.UI.Title == "" {
		c.UI.Title = d.UI.Title
	}
	if c.UI.Width <= 0 {
		c.UI.Width = d.UI.Width
	}
	if c.UI.Height <= 0 {
		c.UI.Height = d.UI.Height
	}
	if c.Cameras == nil {
		c.Cameras = make(map[string]Camera)
	}
	for id, def := range d.Cameras {
		cam := c.Cameras[id]
		if cam.Port == "" {
			cam.Port = def.Port
		}
		if cam.Stream == "" {
			cam.Stream = def.Stream
		}
		c.Cameras[id] = cam
	}
	return nil
}

func positive(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

// Camera returns the prefill for a camera slot id ("camera1", "camera2").
func (c *Config) Camera(id string) Camera {
	if c == nil {
		return Camera{}
	}
	return c.Cameras[id]
}

// Load reads configuration. An explicit path must exist; without one the file
// $HOME/.dualcam-monitor.yaml is merged when present. overrides (typically
// changed command-line flags) are applied last.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(assets.DefaultConfigYAML)); err != nil {
		return DefaultConfig(), fmt.Errorf("read embedded defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".dualcam-monitor")
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return DefaultConfig(), fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range overrides {
		v.Set(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
