// Package config loads the cropkit settings file.
//
// Settings live in a TOML file, by default ~/.config/cropkit/config.toml.
// A missing file is not an error: [Load] returns [Default] in that case.
// Out-of-range values are replaced by their defaults when the file is loaded,
// so callers can use a loaded Config without further checks:
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	rule := cfg.PaddingRule()
//	style := cfg.Style()
//
// The background-removal endpoint is the one value with no usable default. It
// is validated only when set.
package config
