package tool

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/qrdrop/types"
)

const defaultConfigName = ".qrdrop.yaml"

// DefaultConfigPath returns the config file location under the user's home
// directory, falling back to the working directory when home is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(home, defaultConfigName)
}

// LoadConfig reads the persisted config. A missing or unparsable file is not
// an error; the caller just gets defaults.
func LoadConfig(path string) types.AppConfig {
	var cfg types.AppConfig
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		DefaultLogger.Debugf("Ignoring unparsable config file %s: %v", path, err)
		return types.AppConfig{}
	}
	return cfg
}

// SaveConfig writes the persisted config back. Called after a successful
// bind so the next run reuses the same interface.
func SaveConfig(path string, cfg types.AppConfig) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
