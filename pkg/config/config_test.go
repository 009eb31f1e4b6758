package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputSize != 200 || cfg.MinSize != 20 || cfg.PaddingMin != 80 || cfg.PaddingMax != 300 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("cache = %+v, want enabled with a 7 day TTL", cfg.Cache)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
min_size = 32
padding_ratio = 0.25
output_size = 512
dash = [3, 3]

[background_removal]
endpoint = "https://bg.example.com/remove"
timeout = "5s"

[cache]
enabled = false
ttl = "1h"
`)
	cfg, err := Parse(data, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.MinSize != 32 || cfg.PaddingRatio != 0.25 || cfg.OutputSize != 512 {
		t.Errorf("Parse() = %+v", cfg)
	}
	if len(cfg.Dash) != 2 || cfg.Dash[0] != 3 {
		t.Errorf("Dash = %v, want [3 3]", cfg.Dash)
	}
	if cfg.BackgroundRemoval.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.BackgroundRemoval.Timeout)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// Untouched keys keep their defaults.
	if cfg.HandleTolerance != geom.HandleTolerance {
		t.Errorf("HandleTolerance = %g, want default", cfg.HandleTolerance)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `min_size = `},
		{"unknown key", `min_sise = 10`},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"bad endpoint", "[background_removal]\nendpoint = \"ftp://x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), nil)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse(%q) error = %v, want INVALID_CONFIG", tt.data, err)
			}
		})
	}
}

func TestParseUnknownKeyNamed(t *testing.T) {
	_, err := Parse([]byte("[cache]\nenabeld = true"), nil)
	if err == nil || !strings.Contains(err.Error(), "cache.enabeld") {
		t.Errorf("error = %v, want it to name cache.enabeld", err)
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := &Config{
		MinSize:       -1,
		PaddingRatio:  3,
		PaddingMin:    400,
		PaddingMax:    100,
		MaskAlpha:     2,
		Dash:          []float64{0, 0},
		OutputSize:    0,
		MaxCanvasSide: -5,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	d := Default()
	if cfg.MinSize != d.MinSize || cfg.PaddingRatio != d.PaddingRatio {
		t.Errorf("geometry not normalized: %+v", cfg)
	}
	if cfg.PaddingMin != 80 || cfg.PaddingMax != 300 {
		t.Errorf("padding bounds = [%d, %d], want [80, 300]", cfg.PaddingMin, cfg.PaddingMax)
	}
	if cfg.MaskAlpha != d.MaskAlpha || len(cfg.Dash) != 2 || cfg.Dash[0] != 6 {
		t.Errorf("style not normalized: %+v", cfg)
	}
	if cfg.OutputSize != 200 || cfg.MaxCanvasSide != d.MaxCanvasSide {
		t.Errorf("sizes not normalized: %+v", cfg)
	}
	if cfg.BackgroundRemoval.Timeout.Duration != DefaultTimeout || cfg.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("durations not normalized: %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.OutputSize = 320
	cfg.BackgroundRemoval.Endpoint = "https://bg.example.com"
	cfg.BackgroundRemoval.APIKey = "k"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %v, want 0600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.OutputSize != 320 || got.BackgroundRemoval.Endpoint != "https://bg.example.com" {
		t.Errorf("Load() = %+v", got)
	}
	if got.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("TTL = %v after round trip", got.Cache.TTL)
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := Default()
	cfg.MinSize = 40
	cfg.PaddingMin = 10
	cfg.MaskAlpha = 1

	if c := cfg.Constraints(); c.MinSize != 40 || c.Tolerance != geom.HandleTolerance {
		t.Errorf("Constraints() = %+v", c)
	}
	if p := cfg.PaddingRule().Padding(10, 10); p != 10 {
		t.Errorf("Padding(10, 10) = %d, want 10", p)
	}
	s := cfg.Style()
	if s.MaskColor.A != 255 || s.BorderWidth != 2 || s.HandleSize != 10 {
		t.Errorf("Style() = %+v", s)
	}
	s.Dash[0] = 99
	if cfg.Dash[0] != 6 {
		t.Error("Style() must not alias the config dash slice")
	}
}

func TestDefaultPath(t *testing.T) {
	if p := DefaultPath(); !strings.HasSuffix(p, filepath.Join("cropkit", "config.toml")) {
		t.Errorf("DefaultPath() = %q", p)
	}
}
