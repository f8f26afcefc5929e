// Package project converts a resolved value tree into one of the
// supported interchange formats. Projection is a pure, single-pass tree
// walk; each format applies its own type-fidelity rules (integers stay
// integers, TOML has no null, unrepresentable numbers are errors).
package project

import (
	"fmt"
	"strings"

	"github.com/theMackabu/ship/pkg/value"
)

// Format selects the projection target.
type Format int

// Supported output formats.
const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// ParseFormat resolves a format selector (case-insensitive; "yml" and
// "yaml" both mean YAML). The second result is false for anything
// unrecognized, including the empty string.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, true
	case "yml", "yaml":
		return FormatYAML, true
	case "toml":
		return FormatTOML, true
	default:
		return 0, false
	}
}

// Ext returns the output filename extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return "yml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// ContentType returns the media type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	default:
		return "application/json"
	}
}

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// Render projects v into the requested format.
func Render(f Format, v value.Value) (string, error) {
	switch f {
	case FormatJSON:
		return JSON(v)
	case FormatYAML:
		return YAML(v)
	case FormatTOML:
		return TOML(v)
	default:
		return "", fmt.Errorf("unsupported format")
	}
}
