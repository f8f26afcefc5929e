// Package config loads the process configuration read once at startup.
// The configuration is an HCL file with a single settings block; a
// missing or malformed file is fatal: there is no service without a
// listen address and a storage root.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config.hcl"

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalid      = errors.New("invalid configuration")
)

// Config is the root of the configuration file.
type Config struct {
	Settings Settings `hcl:"settings,block"`
}

// Settings holds the process-wide options. VaultURL and VaultToken are
// optional; without them the secret functions stay registered but fail
// with a configuration error when called.
type Settings struct {
	// Listen is the address the HTTP server binds, e.g. "0.0.0.0:3500".
	Listen string `hcl:"listen" validate:"required,hostname_port"`

	// Storage is the root directory documents are served from.
	Storage string `hcl:"storage" validate:"required,dir"`

	// VaultURL is the base URL of the secret backend.
	VaultURL string `hcl:"vault_url,optional" validate:"omitempty,url"`

	// VaultToken authenticates against the secret backend.
	VaultToken string `hcl:"vault_token,optional"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the decoded settings against their constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%w: settings.%s failed %q", ErrInvalid, first.Field(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
