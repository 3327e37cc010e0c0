package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the search directories.
const FileName = "oddoneout.yaml"

// Load loads Odd One Out configuration.
// Search order: customPath -> ~/.arcade/configs/oddoneout.yaml -> ./configs/oddoneout.yaml -> embedded default
// Files are decoded on top of the defaults, so a partial file only overrides what it names.
func Load(customPath string) (OddOneOutConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return OddOneOutConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		return Parse(data, customPath)
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data, userCfgPath); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data, FileName); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultOddOneOutYAML, "embedded default")
	if err != nil {
		return DefaultOddOneOutConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// source is only used in error messages.
func Parse(data []byte, source string) (OddOneOutConfig, error) {
	cfg := DefaultOddOneOutConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return OddOneOutConfig{}, fmt.Errorf("config: failed to parse %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return OddOneOutConfig{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// ResolvePath returns the file Load would read, or "" when the embedded default is used.
func ResolvePath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	if p := userConfigPath(FileName); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	local := filepath.Join("configs", FileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return ""
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
