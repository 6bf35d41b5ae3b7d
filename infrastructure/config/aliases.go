package config

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"notifier-go/core/event"
)

// ErrInvalidAliasFile is returned when an alias file has an entry missing
// either name.
var ErrInvalidAliasFile = errors.New("invalid alias file")

// yamlAliasFile is the YAML structure for alias files.
//
//	aliases:
//	  - legacy: NOTIFIY_ORDER_CART_SUBTOTAL_CALCULATE
//	    canonical: NOTIFY_ORDER_CART_SUBTOTAL_CALCULATE
type yamlAliasFile struct {
	Aliases []yamlAlias `yaml:"aliases"`
}

type yamlAlias struct {
	Legacy    string `yaml:"legacy"`
	Canonical string `yaml:"canonical"`
}

// LoadAliases returns the built-in alias table extended with the entries in
// the YAML file at path. An empty path yields the built-in table.
func LoadAliases(fsys fs.FS, path string) (*event.Aliases, error) {
	aliases := event.DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}

	var file yamlAliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	for i, a := range file.Aliases {
		if a.Legacy == "" || a.Canonical == "" {
			return nil, fmt.Errorf("%w: %s entry %d needs both legacy and canonical", ErrInvalidAliasFile, path, i)
		}
		if err := aliases.Add(a.Legacy, a.Canonical); err != nil {
			return nil, fmt.Errorf("alias file %s: %w", path, err)
		}
	}

	return aliases, nil
}
