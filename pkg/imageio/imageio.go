// Package imageio loads editor sources and encodes editor output.
//
// A source reference is one of:
//
//   - a data URL (data:image/png;base64,...)
//   - an http or https URL, fetched through a [Fetcher]
//   - a local file path
//
// PNG, JPEG and GIF decode through the standard library registrations;
// WebP and BMP are registered from golang.org/x/image. JPEG orientation tags
// are applied while decoding.
//
// Every load failure is an IMAGE_LOAD_FAILED error. Encoding failures are
// CANVAS_UNAVAILABLE because no output can be produced.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/cropkit/pkg/errors"
)

// MIMEPNG is the content type of all encoded output.
const MIMEPNG = "image/png"

// Fetcher retrieves the body of an http(s) URL.
type Fetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// Open loads and decodes the image a reference points to. fetcher may be nil
// when the reference is not a URL.
func Open(ctx context.Context, ref string, fetcher Fetcher) (image.Image, error) {
	if err := errors.ValidateSource(ref); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoad, err, "invalid image source")
	}

	switch {
	case IsDataURL(ref):
		img, _, err := DecodeDataURL(ref)
		return img, err
	case isHTTP(ref):
		if fetcher == nil {
			return nil, errors.New(errors.ErrCodeImageLoad, "no fetcher for %s", ref)
		}
		data, err := fetcher.GetBytes(ctx, ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeImageLoad, err, "fetch %s", ref)
		}
		return DecodeBytes(data)
	default:
		return openFile(ref)
	}
}

func openFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoad, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoad, err, "decode image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeImageLoad, "image has no pixels")
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeImageLoad, "empty image data")
	}
	return Decode(bytes.NewReader(data))
}

// DecodeBase64 decodes a base64 image payload. A data URL prefix, URL-safe
// alphabets and missing padding are tolerated.
func DecodeBase64(s string) (image.Image, error) {
	if IsDataURL(s) {
		img, _, err := DecodeDataURL(s)
		return img, err
	}
	data, err := decodeBase64String(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoad, err, "decode base64 payload")
	}
	return DecodeBytes(data)
}

// IsDataURL reports whether s is a data URL.
func IsDataURL(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// DecodeDataURL decodes the image of a data URL and returns its declared
// media type.
func DecodeDataURL(s string) (image.Image, string, error) {
	mediaType, data, err := ParseDataURL(s)
	if err != nil {
		return nil, "", err
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, "", err
	}
	return img, mediaType, nil
}

// ParseDataURL splits a data URL into its media type and payload.
func ParseDataURL(s string) (mediaType string, data []byte, err error) {
	if !IsDataURL(s) {
		return "", nil, errors.New(errors.ErrCodeImageLoad, "not a data URL")
	}
	meta, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeImageLoad, "data URL has no payload")
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta, isBase64 = m, true
	}
	mediaType = meta
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err = decodeBase64String(payload)
	} else {
		var text string
		text, err = url.PathUnescape(payload)
		data = []byte(text)
	}
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeImageLoad, err, "decode data URL payload")
	}
	return mediaType, data, nil
}

func decodeBase64String(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeCanvasUnavailable, "no image to encode")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanvasUnavailable, err, "encode png")
	}
	return buf.Bytes(), nil
}

// EncodeBase64PNG encodes img as a standard base64 PNG payload.
func EncodeBase64PNG(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURL formats data as a base64 data URL.
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func isHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
