/*
Package config handles loading and saving deepthink configuration.

Configuration is stored in ~/.deepthink.json using camelCase JSON.

Schema:

	{
	  "dataDir": "/home/user/.deepthink",
	  "cacheTtlSeconds": 3600,
	  "pruneAgeHours": 24,
	  "confidenceThreshold": 0.6,
	  "minSuccesses": 3,
	  "defaultMethod": "openai_agents",
	  "models": {
	    "agents": "gpt-4o-mini",
	    "deepResearch": "o3-deep-research"
	  }
	}

The OpenAI API key is read from the OPENAI_API_KEY environment variable
and is never written to the config file.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultCacheTTLSeconds     = 3600
	DefaultPruneAgeHours       = 24
	DefaultConfidenceThreshold = 0.6
	DefaultMinSuccesses        = 3
	DefaultMethod              = "openai_agents"
	DefaultAgentsModel         = "gpt-4o-mini"
	DefaultDeepResearchModel   = "o3-deep-research"
)

// Config represents the root configuration structure.
type Config struct {
	// DataDir is where the pattern database and result cache live.
	DataDir string `json:"dataDir,omitempty"`

	// CacheTTLSeconds is how long cached results stay valid.
	CacheTTLSeconds int `json:"cacheTtlSeconds,omitempty"`

	// PruneAgeHours is how old a cache entry must be before pruning.
	PruneAgeHours int `json:"pruneAgeHours,omitempty"`

	// ConfidenceThreshold is the minimum confidence for method suggestions.
	ConfidenceThreshold float64 `json:"confidenceThreshold,omitempty"`

	// MinSuccesses is the minimum confirming successes before a pattern
	// counts as learned.
	MinSuccesses int `json:"minSuccesses,omitempty"`

	// DefaultMethod is the research method used without a suggestion.
	DefaultMethod string `json:"defaultMethod,omitempty"`

	// Models selects the OpenAI models per research method.
	Models *Models `json:"models,omitempty"`
}

// Models selects the OpenAI models per research method.
type Models struct {
	// Agents is the model for the openai_agents method.
	Agents string `json:"agents,omitempty"`

	// DeepResearch is the model for the deep_research_api method.
	DeepResearch string `json:"deepResearch,omitempty"`
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	dataDir := ".deepthink"
	if err == nil {
		dataDir = filepath.Join(home, ".deepthink")
	}

	return &Config{
		DataDir:             dataDir,
		CacheTTLSeconds:     DefaultCacheTTLSeconds,
		PruneAgeHours:       DefaultPruneAgeHours,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MinSuccesses:        DefaultMinSuccesses,
		DefaultMethod:       DefaultMethod,
		Models: &Models{
			Agents:       DefaultAgentsModel,
			DeepResearch: DefaultDeepResearchModel,
		},
	}
}

// GetDefaultConfigPath returns the path to ~/.deepthink.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".deepthink.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the configuration from a specific path.
// Missing fields are filled with defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrCreate reads the configuration, creating a default one if missing.
func LoadOrCreate() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err == nil {
		return cfg, nil
	}
	if _, statErr := os.Stat(configPath); statErr == nil {
		// File exists but failed to load: surface the real error
		return nil, err
	}

	cfg = NewConfig()
	if err := Save(cfg, configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyDefaults fills zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	defaults := NewConfig()

	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if c.PruneAgeHours <= 0 {
		c.PruneAgeHours = defaults.PruneAgeHours
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if c.MinSuccesses <= 0 {
		c.MinSuccesses = defaults.MinSuccesses
	}
	if c.DefaultMethod == "" {
		c.DefaultMethod = defaults.DefaultMethod
	}
	if c.Models == nil {
		c.Models = defaults.Models
	} else {
		if c.Models.Agents == "" {
			c.Models.Agents = defaults.Models.Agents
		}
		if c.Models.DeepResearch == "" {
			c.Models.DeepResearch = defaults.Models.DeepResearch
		}
	}
}

// DBPath returns the pattern database path under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "memory.db")
}

// CacheDir returns the result cache directory under the data directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// PruneAge returns the cache prune age as a duration.
func (c *Config) PruneAge() time.Duration {
	return time.Duration(c.PruneAgeHours) * time.Hour
}

// APIKey returns the OpenAI API key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
