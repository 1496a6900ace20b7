package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	// Database is the isolated database the loader prefers. The bootstrap
	// negotiator may settle on a different one at runtime.
	Database string `toml:"database"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type LoaderConfig struct {
	DataDir string `toml:"data_dir"`
	GroupID string `toml:"group_id"`
	// AllowWipe permits the fallback bootstrap paths to clear all existing
	// content from a shared database before loading. Off by default: wiping
	// a database the loader does not own must be an explicit choice.
	AllowWipe bool `toml:"allow_wipe"`
}

type ExtractionPrompts struct {
	Nodes string `toml:"nodes"`
	Edges string `toml:"edges"`
}

type DeduplicationPrompts struct {
	Nodes string `toml:"nodes"`
	Edges string `toml:"edges"`
}

type SummaryPrompts struct {
	Nodes         string `toml:"nodes"`
	Communities   string `toml:"communities"`
	CommunityName string `toml:"community_name"`
}

type Config struct {
	Neo4j         Neo4jConfig          `toml:"neo4j"`
	LLM           LLMConfig            `toml:"llm"`
	Loader        LoaderConfig         `toml:"loader"`
	Extraction    ExtractionPrompts    `toml:"extraction"`
	Deduplication DeduplicationPrompts `toml:"deduplication"`
	Summary       SummaryPrompts       `toml:"summary"`
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Password: "password",
			Database: "default_db",
		},
		Loader: LoaderConfig{
			DataDir: "data",
			GroupID: "mosdac",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Env wins over file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		c.Neo4j.Database = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("MOSDAC_DATA_DIR"); v != "" {
		c.Loader.DataDir = v
	}
	if v := os.Getenv("MOSDAC_GROUP_ID"); v != "" {
		c.Loader.GroupID = v
	}
	if os.Getenv("MOSDAC_ALLOW_WIPE") == "true" {
		c.Loader.AllowWipe = true
	}
}
