package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = "sitegen.yaml"

// ErrConfigFileNotFound is returned by LoadFile when path does not exist.
var ErrConfigFileNotFound = errors.New("sitegen config: file not found")

// LoadFile decodes the YAML document at path over DefaultConfig. Keys the
// document omits keep their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Config{}, fmt.Errorf("sitegen config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("sitegen config: %s: %w", path, err)
	}
	if cfg.Source == "" || cfg.Source == "." {
		cfg.Source = filepath.Dir(path)
	}
	return cfg, nil
}

// LoadOptional behaves like LoadFile but returns DefaultConfig when path
// does not exist.
func LoadOptional(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, ErrConfigFileNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Decode reads a YAML configuration over DefaultConfig. Unknown keys are
// rejected. An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve joins a configured directory with the source root.
func (cfg Config) Resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	source := cfg.Source
	if source == "" {
		source = "."
	}
	return filepath.Join(source, dir)
}
