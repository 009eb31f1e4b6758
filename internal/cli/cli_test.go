package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cropkit/pkg/errors"
)

// writeTestImage writes a w x h opaque PNG to dir and returns its path.
func writeTestImage(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its printed output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodePNGFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestCropCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 400, 300)
	cfg := writeConfig(t, dir, "")

	tests := []struct {
		name  string
		args  []string
		wantW int
		wantH int
	}{
		{"whole image", nil, 400, 300},
		{"explicit rect", []string{"--x", "0", "--y", "0", "--width", "450", "--height", "290"}, 450, 290},
		{"into the padding", []string{"--x", "-20", "--y", "10", "--width", "100", "--height", "50"}, 100, 50},
		{"square", []string{"--width", "200", "--height", "100", "--square"}, 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".png")
			args := append([]string{"crop", input, "--config", cfg, "-o", output}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("crop: %v", err)
			}
			if !strings.Contains(out, output) {
				t.Errorf("output %q does not name %s", out, output)
			}
			b := decodePNGFile(t, output).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCropCommandWarnsWhenAdjusted(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 400, 300)
	output := filepath.Join(dir, "out.png")

	// 5 pixels wide is below the minimum size.
	out, err := execute(t, "crop", input, "--config", writeConfig(t, dir, ""), "-o", output, "--width", "5")
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if !strings.Contains(out, "adjusted") {
		t.Errorf("output %q has no adjustment warning", out)
	}
	if b := decodePNGFile(t, output).Bounds(); b.Dx() != 20 {
		t.Errorf("width = %d, want 20", b.Dx())
	}
}

func TestCropCommandRejectsNaN(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 400, 300)
	output := filepath.Join(dir, "out.png")

	_, err := execute(t, "crop", input, "--config", writeConfig(t, dir, ""), "-o", output, "--width", "NaN")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("crop --width NaN error = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written despite the error: %v", err)
	}
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 300, 100)
	output := filepath.Join(dir, "square.png")

	if _, err := execute(t, "fit", input, "--config", writeConfig(t, dir, ""), "-o", output, "--size", "64"); err != nil {
		t.Fatalf("fit: %v", err)
	}
	img := decodePNGFile(t, output)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("size = %dx%d, want 64x64", b.Dx(), b.Dy())
	}
	if _, _, _, a := img.At(32, 0).RGBA(); a != 0xffff {
		t.Errorf("letterbox alpha = %d, want opaque", a)
	}
}

func TestFitCommandUsesConfiguredSize(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 50, 50)
	output := filepath.Join(dir, "square.png")

	if _, err := execute(t, "fit", input, "--config", writeConfig(t, dir, "output_size = 96\n"), "-o", output); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if b := decodePNGFile(t, output).Bounds(); b.Dx() != 96 {
		t.Errorf("size = %d, want 96", b.Dx())
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 400, 300)
	cfg := writeConfig(t, dir, "")

	t.Run("png", func(t *testing.T) {
		output := filepath.Join(dir, "preview.png")
		if _, err := execute(t, "preview", input, "--config", cfg, "-o", output); err != nil {
			t.Fatalf("preview: %v", err)
		}
		if b := decodePNGFile(t, output).Bounds(); b.Dx() != 640 || b.Dy() != 540 {
			t.Errorf("size = %dx%d, want 640x540", b.Dx(), b.Dy())
		}
	})

	t.Run("svg", func(t *testing.T) {
		output := filepath.Join(dir, "preview.svg")
		if _, err := execute(t, "preview", input, "--config", cfg, "-o", output, "-f", "svg"); err != nil {
			t.Fatalf("preview: %v", err)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Error("output is not an SVG document")
		}
	})

	t.Run("json", func(t *testing.T) {
		output := filepath.Join(dir, "preview.json")
		if _, err := execute(t, "preview", input, "--config", cfg, "-o", output, "-f", "json", "--x", "10", "--width", "100"); err != nil {
			t.Fatalf("preview: %v", err)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		var plan struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		}
		if err := json.Unmarshal(data, &plan); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if plan.Width != 640 || plan.Height != 540 {
			t.Errorf("plan = %dx%d, want 640x540", plan.Width, plan.Height)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "preview", input, "--config", cfg, "-f", "gif")
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("err = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestLoadFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "crop", filepath.Join(dir, "missing.png"), "--config", writeConfig(t, dir, ""))
	if !errors.Is(err, errors.ErrCodeImageLoad) {
		t.Errorf("err = %v, want IMAGE_LOAD_FAILED", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 10, 10)
	_, err := execute(t, "crop", input, "--config", writeConfig(t, dir, "min_sise = 3\n"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

const replayScript = `
[screen]
left = 0
top = 0
scale = 1

[[steps]]
action = "toggle-crop"

[[steps]]
action = "down"
x = 520
y = 420

[[steps]]
action = "move"
source = "touch"
touches = [{ x = 570, y = 410 }]

[[steps]]
action = "up"

[[steps]]
action = "apply-crop"
`

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 400, 300)
	scriptPath := filepath.Join(dir, "session.toml")
	output := filepath.Join(dir, "replay.png")

	t.Run("crop", func(t *testing.T) {
		if err := os.WriteFile(scriptPath, []byte(replayScript), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := execute(t, "replay", input, scriptPath, "--config", writeConfig(t, dir, ""), "-o", output)
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if !strings.Contains(out, "dragging se") {
			t.Errorf("output %q does not show the se drag", out)
		}
		if b := decodePNGFile(t, output).Bounds(); b.Dx() != 450 || b.Dy() != 290 {
			t.Errorf("size = %dx%d, want 450x290", b.Dx(), b.Dy())
		}
	})

	t.Run("confirm", func(t *testing.T) {
		script := replayScript + "\n[[steps]]\naction = \"confirm\"\n"
		if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := execute(t, "replay", input, scriptPath, "--config", writeConfig(t, dir, ""), "-o", output)
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if !strings.Contains(out, "true") {
			t.Errorf("output %q does not report the confirmation", out)
		}
		if b := decodePNGFile(t, output).Bounds(); b.Dx() != 200 || b.Dy() != 200 {
			t.Errorf("size = %dx%d, want 200x200", b.Dx(), b.Dy())
		}
	})

	t.Run("apply outside crop mode", func(t *testing.T) {
		if err := os.WriteFile(scriptPath, []byte("[[steps]]\naction = \"apply-crop\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := execute(t, "replay", input, scriptPath, "--config", writeConfig(t, dir, ""), "-o", output)
		if !errors.Is(err, errors.ErrCodeInvalidState) {
			t.Errorf("err = %v, want INVALID_STATE", err)
		}
	})
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"valid", replayScript, false},
		{"empty", "", false},
		{"unknown action", "[[steps]]\naction = \"rotate\"\n", true},
		{"unknown key", "[[steps]]\naction = \"up\"\nangle = 3\n", true},
		{"not toml", "[[steps]\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript([]byte(tt.script))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestRemoveBgCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 40, 30)

	var result bytes.Buffer
	if err := png.Encode(&result, image.NewNRGBA(image.Rect(0, 0, 100, 50))); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"processedImageBase64": base64.StdEncoding.EncodeToString(result.Bytes()),
			"contentType":          "image/png",
		})
	}))
	defer srv.Close()

	cfg := writeConfig(t, dir, "[background_removal]\nendpoint = \""+srv.URL+"\"\n\n[cache]\nenabled = false\n")
	output := filepath.Join(dir, "nobg.png")
	if _, err := execute(t, "remove-bg", input, "--config", cfg, "-o", output); err != nil {
		t.Fatalf("remove-bg: %v", err)
	}
	if b := decodePNGFile(t, output).Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestRemoveBgCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, 40, 30)

	t.Run("no endpoint", func(t *testing.T) {
		_, err := execute(t, "remove-bg", input, "--config", writeConfig(t, dir, ""))
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("err = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		output := filepath.Join(dir, "never.png")
		cfg := writeConfig(t, dir, "[background_removal]\nendpoint = \""+srv.URL+"\"\n\n[cache]\nenabled = false\n")
		_, err := execute(t, "remove-bg", input, "--config", cfg, "-o", output)
		if !errors.Is(err, errors.ErrCodeBackgroundRemoval) {
			t.Errorf("err = %v, want BACKGROUND_REMOVAL_FAILED", err)
		}
		if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
			t.Error("output written after a failed removal")
		}
	})
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	out, err := execute(t, "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}

	if _, err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	if _, err := execute(t, "config", "init", "--config", path); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second init err = %v, want INVALID_PATH", err)
	}
	if _, err := execute(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	if err := os.WriteFile(path, []byte("[background_removal]\nendpoint = \"https://example.com/remove\"\napi_key = \"secret\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "output_size = 200") {
		t.Errorf("config show missing defaults:\n%s", out)
	}
	if strings.Contains(out, "secret") {
		t.Error("config show printed the API key")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfg := writeConfig(t, dir, "[cache]\ndir = \""+cacheDir+"\"\n")

	out, err := execute(t, "cache", "path", "--config", cfg)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	out, err = execute(t, "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("cache clear on an empty cache = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "cropkit") {
		t.Error("bash completion does not mention cropkit")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"out.png", "photo.jpg", "out.png"},
		{"", "dir/photo.jpg", "photo_crop.png"},
		{"", "https://example.com/a/photo.jpg", "image_crop.png"},
		{"", "data:image/png;base64,AAAA", "image_crop.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, "_crop", formatPNG); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRectFlagsCanvasRect(t *testing.T) {
	r := rectFlags{x: -20, y: 10}
	got := r.canvasRect(400, 300, 120)
	want := [4]float64{100, 130, 420, 290}
	if [4]float64{got.X, got.Y, got.Width, got.Height} != want {
		t.Errorf("canvasRect() = %v, want %v", got, want)
	}
}
