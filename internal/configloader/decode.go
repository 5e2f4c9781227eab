package configloader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/htmlindent/pkg/config"
)

// decodeYAML decodes content into cfg, rejecting unknown keys.
func decodeYAML(content []byte, cfg *config.Config) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

// decodeTOML decodes content into cfg, rejecting unknown keys.
func decodeTOML(content []byte, cfg *config.Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return fmt.Errorf("parse TOML: %s", strictErr.String())
		}
		return fmt.Errorf("parse TOML: %w", err)
	}
	return nil
}
