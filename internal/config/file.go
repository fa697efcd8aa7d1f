package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a supported document encoding.
type Format int

const (
	YAML Format = iota
	TOML
)

// FormatOf picks the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// DecodeFile reads path and decodes it into v.
func DecodeFile(path string, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(data, format, v)
}

// Decode decodes data in the given format into v.
func Decode(data []byte, format Format, v any) error {
	switch format {
	case TOML:
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
	}
	return nil
}

// EncodeFile writes v to path in the format matching its extension.
func EncodeFile(path string, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return fmt.Errorf("toml: %w", err)
		}
		data = buf.Bytes()
	default:
		data, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
