package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/render"
)

// Defaults for values that are not geometry constants.
const (
	DefaultOutputSize  = 200
	DefaultMaskAlpha   = 0.5
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultBorderWidth = 2.0
)

// Config is the decoded settings file.
type Config struct {
	MinSize         float64   `toml:"min_size"`
	HandleTolerance float64   `toml:"handle_tolerance"`
	HandleSize      float64   `toml:"handle_size"`
	PaddingRatio    float64   `toml:"padding_ratio"`
	PaddingMin      int       `toml:"padding_min"`
	PaddingMax      int       `toml:"padding_max"`
	OutputSize      int       `toml:"output_size"`
	MaxCanvasSide   int       `toml:"max_canvas_side"`
	MaskAlpha       float64   `toml:"mask_alpha"`
	BorderWidth     float64   `toml:"border_width"`
	Dash            []float64 `toml:"dash"`

	BackgroundRemoval BackgroundRemoval `toml:"background_removal"`
	Cache             Cache             `toml:"cache"`
}

// BackgroundRemoval configures the external background-removal service.
type BackgroundRemoval struct {
	Endpoint string   `toml:"endpoint"`
	APIKey   string   `toml:"api_key"`
	Timeout  Duration `toml:"timeout"`
}

// Cache configures the on-disk result cache.
type Cache struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("30s", "168h").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MinSize:         geom.MinSize,
		HandleTolerance: geom.HandleTolerance,
		HandleSize:      render.DefaultStyle().HandleSize,
		PaddingRatio:    geom.DefaultPaddingRule.Ratio,
		PaddingMin:      geom.DefaultPaddingRule.Min,
		PaddingMax:      geom.DefaultPaddingRule.Max,
		OutputSize:      DefaultOutputSize,
		MaxCanvasSide:   render.MaxCanvasSide,
		MaskAlpha:       DefaultMaskAlpha,
		BorderWidth:     DefaultBorderWidth,
		Dash:            []float64{6, 4},
		BackgroundRemoval: BackgroundRemoval{
			Timeout: Duration{DefaultTimeout},
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{DefaultCacheTTL},
		},
	}
}

// DefaultPath returns ~/.config/cropkit/config.toml, or a relative
// config.toml when the home directory is unknown.
func DefaultPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, ".config", "cropkit", "config.toml")
}

// Load reads the settings file at path on top of [Default]. A missing file
// yields the defaults. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data on top of base and validates the result.
func Parse(data []byte, base *Config) (*Config, error) {
	if base == nil {
		base = Default()
	}
	md, err := toml.Decode(string(data), base)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// Validate replaces out-of-range values with their defaults. It fails only
// for a background-removal endpoint that is not an http(s) URL.
func (c *Config) Validate() error {
	d := Default()
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	if c.HandleTolerance < 0 {
		c.HandleTolerance = d.HandleTolerance
	}
	if c.HandleSize <= 0 {
		c.HandleSize = d.HandleSize
	}
	if c.PaddingRatio <= 0 || c.PaddingRatio > 1 {
		c.PaddingRatio = d.PaddingRatio
	}
	if c.PaddingMin < 0 {
		c.PaddingMin = d.PaddingMin
	}
	if c.PaddingMax < c.PaddingMin {
		c.PaddingMin, c.PaddingMax = d.PaddingMin, d.PaddingMax
	}
	if c.OutputSize <= 0 {
		c.OutputSize = d.OutputSize
	}
	if c.MaxCanvasSide <= 0 {
		c.MaxCanvasSide = d.MaxCanvasSide
	}
	if c.MaskAlpha < 0 || c.MaskAlpha > 1 {
		c.MaskAlpha = d.MaskAlpha
	}
	if c.BorderWidth <= 0 {
		c.BorderWidth = d.BorderWidth
	}
	if !validDash(c.Dash) {
		c.Dash = d.Dash
	}
	if c.BackgroundRemoval.Timeout.Duration <= 0 {
		c.BackgroundRemoval.Timeout = d.BackgroundRemoval.Timeout
	}
	if c.Cache.TTL.Duration <= 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	c.BackgroundRemoval.Endpoint = strings.TrimSpace(c.BackgroundRemoval.Endpoint)
	if c.BackgroundRemoval.Endpoint != "" {
		if err := errors.ValidateURL(c.BackgroundRemoval.Endpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "background_removal.endpoint")
		}
	}
	return nil
}

func validDash(dash []float64) bool {
	if len(dash) == 0 {
		return false
	}
	var sum float64
	for _, v := range dash {
		if v < 0 {
			return false
		}
		sum += v
	}
	return sum > 0
}

// Save writes c to path as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config directory")
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write config %s", path)
	}
	return nil
}

// Constraints returns the crop geometry tunables.
func (c *Config) Constraints() geom.Constraints {
	return geom.Constraints{MinSize: c.MinSize, Tolerance: c.HandleTolerance}
}

// PaddingRule returns the crop-mode margin rule.
func (c *Config) PaddingRule() geom.PaddingRule {
	return geom.PaddingRule{Ratio: c.PaddingRatio, Min: c.PaddingMin, Max: c.PaddingMax}
}

// Style returns the overlay style with the configured mask, border and handles.
func (c *Config) Style() render.Style {
	s := render.DefaultStyle()
	s.MaskColor = render.MaskAlpha(c.MaskAlpha)
	s.BorderWidth = c.BorderWidth
	s.Dash = append([]float64(nil), c.Dash...)
	s.HandleSize = c.HandleSize
	return s
}
