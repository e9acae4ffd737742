package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/stint/internal/schedule"
)

// FileName is the config file looked up in Dir().
const FileName = "config.yml"

// LocalFileName is the per-project override looked up in the working
// directory. Its set fields win over the global file.
const LocalFileName = ".stint.yml"

// Config is everything stint needs beyond API keys, which always come
// from the environment.
type Config struct {
	// Repo is the "owner/name" GitHub repository commits are read from.
	Repo string `yaml:"repo"`

	// Model selects the generation model; "auto" ranks the provider's
	// available models, empty behaves like "auto".
	Model string `yaml:"model"`

	Clockify ClockifyConfig  `yaml:"clockify"`
	Policy   schedule.Policy `yaml:"policy"`
}

// ClockifyConfig identifies the workspace entries are written to.
type ClockifyConfig struct {
	WorkspaceID string `yaml:"workspace_id"`
	ProjectID   string `yaml:"project_id"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Model:  "auto",
		Policy: schedule.DefaultPolicy(),
	}
}

// Load reads the global config file from Dir() and merges the local
// override from the current directory on top. A missing file is not an
// error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	if err := mergeFile(&cfg, filepath.Join(Dir(), FileName)); err != nil {
		return cfg, err
	}
	if err := mergeFile(&cfg, LocalFileName); err != nil {
		return cfg, err
	}

	if err := cfg.Policy.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid policy: %w", err)
	}
	return cfg, nil
}

// mergeFile overlays one YAML file onto cfg. Decoding into the existing
// struct means unset fields keep their current values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Save writes the config to the global file, creating Dir() if needed.
func Save(cfg Config) error {
	dir := Dir()
	if dir == "" {
		return fmt.Errorf("cannot resolve configuration directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0o600)
}
