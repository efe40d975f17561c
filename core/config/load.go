package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads and validates the configuration file at path. Files ending in
// .toml are parsed as TOML, everything else as YAML. Settings missing from
// the file keep their default values.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given a directory, look for the config.yaml inside.
	if isDir, err := afero.IsDir(fs, path); err == nil && isDir {
		path = filepath.Join(path, ConfigurationName)
	}

	configContents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(configContents))
		md, err := decoder.Decode(out)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown field %q", path, undecoded[0].String())
		}
	default:
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, err
		}
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out.configFs = fs
	return out, nil
}
