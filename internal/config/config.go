package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// APIConfig holds connection details for the Gemini File Search API.
// The credential itself is never stored here; only the name of the
// environment variable that carries it.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkingConfig configures how uploaded documents are split before indexing.
type ChunkingConfig struct {
	MaxTokensPerChunk int `yaml:"max_tokens_per_chunk"`
	MaxOverlapTokens  int `yaml:"max_overlap_tokens"`
}

// StoresConfig names the default stores the app creates on demand.
type StoresConfig struct {
	SamplesDisplayName string `yaml:"samples_display_name"`
	UploadsDisplayName string `yaml:"uploads_display_name"`
}

// PollConfig tunes how indexing operations are polled.
type PollConfig struct {
	IntervalMillis int `yaml:"interval_millis"`
	TimeoutSecs    int `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	API        APIConfig      `yaml:"api"`
	Chunking   ChunkingConfig `yaml:"chunking"`
	Stores     StoresConfig   `yaml:"stores"`
	Poll       PollConfig     `yaml:"poll"`
	SamplesDir string         `yaml:"samples_dir"`
}

// PollInterval returns the poll interval as a duration.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMillis) * time.Millisecond
}

// PollTimeout returns the overall indexing deadline as a duration.
func (c *AppConfig) PollTimeout() time.Duration {
	return time.Duration(c.Poll.TimeoutSecs) * time.Second
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./tome.yaml first, then ~/.config/tome/config.yaml.
// If neither exists, it writes defaults to ~/.config/tome/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "tome.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path atomically, creating directories
// as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Validate rejects configurations that cannot produce working API calls.
func (c *AppConfig) Validate() error {
	if c.API.Model == "" {
		return fmt.Errorf("config: api.model must not be empty")
	}
	if c.API.APIKeyEnv == "" {
		return fmt.Errorf("config: api.api_key_env must not be empty")
	}
	if c.Chunking.MaxTokensPerChunk < 0 || c.Chunking.MaxOverlapTokens < 0 {
		return fmt.Errorf("config: chunking values must not be negative")
	}
	if c.Chunking.MaxOverlapTokens >= c.Chunking.MaxTokensPerChunk && c.Chunking.MaxTokensPerChunk > 0 {
		return fmt.Errorf("config: chunking overlap (%d) must be smaller than chunk size (%d)",
			c.Chunking.MaxOverlapTokens, c.Chunking.MaxTokensPerChunk)
	}
	if c.Poll.IntervalMillis <= 0 {
		return fmt.Errorf("config: poll.interval_millis must be positive")
	}
	// A negative timeout would disable the local indexing deadline entirely.
	if c.Poll.TimeoutSecs < 0 {
		return fmt.Errorf("config: poll.timeout_secs must not be negative")
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tome", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			APIKeyEnv:   "GEMINI_API_KEY",
			Model:       "gemini-2.5-flash",
			TimeoutSecs: 60,
		},
		Chunking: ChunkingConfig{MaxTokensPerChunk: 200, MaxOverlapTokens: 20},
		Stores: StoresConfig{
			SamplesDisplayName: "file-search-samples",
			UploadsDisplayName: "file-search-uploads",
		},
		Poll:       PollConfig{IntervalMillis: 500, TimeoutSecs: 120},
		SamplesDir: "samples",
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.API.APIKeyEnv == "" {
		cfg.API.APIKeyEnv = def.API.APIKeyEnv
	}
	if cfg.API.Model == "" {
		cfg.API.Model = def.API.Model
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if cfg.Chunking.MaxTokensPerChunk == 0 {
		cfg.Chunking = def.Chunking
	}
	if cfg.Stores.SamplesDisplayName == "" {
		cfg.Stores.SamplesDisplayName = def.Stores.SamplesDisplayName
	}
	if cfg.Stores.UploadsDisplayName == "" {
		cfg.Stores.UploadsDisplayName = def.Stores.UploadsDisplayName
	}
	if cfg.Poll.IntervalMillis == 0 {
		cfg.Poll.IntervalMillis = def.Poll.IntervalMillis
	}
	if cfg.Poll.TimeoutSecs == 0 {
		cfg.Poll.TimeoutSecs = def.Poll.TimeoutSecs
	}
	if cfg.SamplesDir == "" {
		cfg.SamplesDir = def.SamplesDir
	}
}
