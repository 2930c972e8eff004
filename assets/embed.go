package assets

import (
	_ "embed"
)

// DefaultConfigYAML holds the built-in configuration defaults.
//
//go:embed default_config.yaml
var DefaultConfigYAML []byte
