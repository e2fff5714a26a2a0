package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustpy-labs/rustpy/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyCopierBin      = "copier.bin"
	KeyTemplateSource = "template.source"
	KeyMaxDocWarnings = "verify.max_doc_warnings"
)

// Defaults for the keys above. An empty template source selects the
// embedded template set rendered by the builtin engine.
const (
	DefaultCopierBin      = "copier"
	DefaultTemplateSource = ""
	DefaultMaxDocWarnings = 3
)

// Dir returns the path to the config directory (~/.rustpy/).
// The <PREFIX>_HOME environment variable overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.rustpy/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to env vars with dots replaced by underscores, so
// copier.bin is read from RUSTPY_COPIER_BIN.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyCopierBin, DefaultCopierBin)
	viper.SetDefault(KeyTemplateSource, DefaultTemplateSource)
	viper.SetDefault(KeyMaxDocWarnings, DefaultMaxDocWarnings)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// CopierBin returns the copier executable to invoke.
func CopierBin() string {
	return viper.GetString(KeyCopierBin)
}

// TemplateSource returns the template location handed to copier.
// Empty means the embedded template set.
func TemplateSource() string {
	return viper.GetString(KeyTemplateSource)
}

// MaxDocWarnings returns the number of documentation build warnings the
// docs pipeline tolerates.
func MaxDocWarnings() int {
	return viper.GetInt(KeyMaxDocWarnings)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
