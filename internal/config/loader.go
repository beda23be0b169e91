package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSettings loads run settings. Keys missing from the file keep their defaults.
// Search order: customPath -> ~/.fleetcrawl/configs/settings.yaml -> ./configs/settings.yaml -> embedded default
func LoadSettings(customPath string) (Settings, error) {
	cfg, err := load("settings.yaml", customPath, defaultSettingsYAML, DefaultSettings)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadHeatCatalog loads the heat modifier catalog.
// Search order: customPath -> ~/.fleetcrawl/configs/heat_modifiers.yaml -> ./configs/heat_modifiers.yaml -> embedded default
func LoadHeatCatalog(customPath string) (HeatCatalog, error) {
	cat, err := load("heat_modifiers.yaml", customPath, defaultHeatCatalogYAML, func() HeatCatalog { return HeatCatalog{} })
	if err != nil {
		return cat, err
	}
	if len(cat.Modifiers) == 0 {
		return DefaultHeatCatalog(), nil
	}
	if _, err := cat.Definitions(); err != nil {
		return cat, err
	}
	return cat, nil
}

// load walks the search order for filename. base seeds each decode so
// omitted keys keep base values.
func load[T any](filename, customPath string, embedded []byte, base func() T) (T, error) {
	cfg := base()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if decoded, ok := decode(data, base); ok {
				return decoded, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if decoded, ok := decode(data, base); ok {
			return decoded, nil
		}
	}

	// Use embedded default YAML
	if decoded, ok := decode(embedded, base); ok {
		return decoded, nil
	}
	return base(), nil
}

func decode[T any](data []byte, base func() T) (T, bool) {
	cfg := base()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fleetcrawl", "configs", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
