package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"songbook/internal/handle"
)

// Config holds the CLI configuration.
type Config struct {
	// PrefsDir is where the root handle and access lock live.
	PrefsDir string `json:"prefs_dir,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// ConfigFileName is the per-user config file inside the prefs dir.
const ConfigFileName = "config.json"

// Config errors.
var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
)

// LoadConfig loads configuration with the following precedence (highest
// wins): defaults, the user config file (inside the default prefs dir, or an
// explicit path via configPath), then CLI overrides.
//
// The config file is JSONC: comments and trailing commas are allowed.
func LoadConfig(configPath string, overrides Config, env map[string]string) (Config, error) {
	defaultPrefs, prefsErr := handle.DefaultPrefsDir(env)
	if prefsErr != nil {
		return Config{}, prefsErr
	}

	cfg := Config{PrefsDir: defaultPrefs}

	cfgFile := configPath
	mustExist := configPath != ""

	if cfgFile == "" {
		cfgFile = filepath.Join(defaultPrefs, ConfigFileName)
	}

	fileCfg, loaded, loadErr := loadConfigFile(cfgFile, mustExist)
	if loadErr != nil {
		return Config{}, loadErr
	}

	if loaded && fileCfg.PrefsDir != "" {
		cfg.PrefsDir = fileCfg.PrefsDir
	}

	if overrides.PrefsDir != "" {
		cfg.PrefsDir = overrides.PrefsDir
	}

	return cfg, nil
}

// loadConfigFile loads a config file. If mustExist is false, a missing file
// returns a zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, readErr := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if readErr != nil {
		if os.IsNotExist(readErr) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON.
	standardized, huErr := hujson.Standardize(data)
	if huErr != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", huErr)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}
