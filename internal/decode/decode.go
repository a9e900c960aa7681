// Package decode parses configuration documents strictly, rejecting unknown
// fields, so that YAML and TOML callers share one set of limits and errors.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// MaxInputSize limits input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

// Format is a supported document syntax.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

var (
	ErrNilData           = errors.New("decode: nil or empty data")
	ErrNilDestination    = errors.New("decode: nil destination pointer")
	ErrInputTooLarge     = errors.New("decode: input exceeds maximum size")
	ErrUnsupportedFormat = errors.New("decode: unsupported format")
)

// FormatFor picks the format from a file extension. Anything that is not
// .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML
	}
	return YAML
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Strict decodes data in the given format into v and rejects unknown fields.
func Strict(format Format, data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}

	switch format {
	case YAML:
		if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}
