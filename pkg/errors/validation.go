package errors

import (
	"strings"
	"unicode"
)

// maxSourceLength bounds file paths and remote URLs. Data URLs are exempt because
// their length is the payload size.
const maxSourceLength = 2048

// ValidateSource validates an image source reference before it is opened.
// Accepted forms are data URLs ("data:image/png;base64,..."), http(s) URLs and
// local file paths.
//
// The validation rules are intentionally conservative:
//   - No empty references
//   - No control characters or null bytes in URLs and paths
//   - Maximum length of 2048 characters for URLs and paths
func ValidateSource(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return New(ErrCodeInvalidInput, "image source cannot be empty")
	}

	if strings.HasPrefix(ref, "data:") {
		if !strings.Contains(ref, ",") {
			return New(ErrCodeInvalidInput, "data URL has no payload")
		}
		return nil
	}

	if len(ref) > maxSourceLength {
		return New(ErrCodeInvalidInput, "image source too long (max %d characters)", maxSourceLength)
	}

	for _, r := range ref {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "image source contains invalid control characters")
		}
	}

	if strings.Contains(ref, "://") {
		return ValidateURL(ref)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is about to write an image to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}
