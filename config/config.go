package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Settings is the engine configuration surface exposed to hosts.
type Settings struct {
	// Async enables thunk and future resolution in dispatch.
	Async bool `toml:"async" yaml:"async" json:"async"`

	// Reload controls live reloading of the settings file itself.
	Reload ReloadSettings `toml:"reload" yaml:"reload" json:"reload"`
}

// ReloadSettings controls the settings watcher.
type ReloadSettings struct {
	// Watch enables monitoring the settings file for changes.
	Watch bool `toml:"watch" yaml:"watch" json:"watch"`

	// DebounceMS is the quiet period, in milliseconds, before a change is
	// reported. Editors often write files in bursts.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// Debounce returns the reload debounce as a duration, falling back to the
// default when unset.
func (r ReloadSettings) Debounce() time.Duration {
	if r.DebounceMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(r.DebounceMS) * time.Millisecond
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{}
}

// Format identifies a settings file format.
type Format int

const (
	// FormatTOML is TOML (.toml).
	FormatTOML Format = iota

	// FormatYAML is YAML (.yaml, .yml).
	FormatYAML

	// FormatJSON is JSON (.json).
	FormatJSON
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatForPath maps a file extension to its Format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads settings from a file, choosing the decoder by extension.
// A missing file yields Default() without an error.
func Load(path string) (Settings, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}

	s, err := Parse(data, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return s, err
	}
	return s, nil
}

// Parse decodes settings from raw bytes in the given format.
func Parse(data []byte, format Format) (Settings, error) {
	s := Default()

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	if err != nil {
		return Settings{}, &ParseError{Path: "<data>", Err: err}
	}
	return s, nil
}
