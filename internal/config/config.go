package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root string `yaml:"root"`
	} `yaml:"project"`
	Explorer struct {
		// Search paths for type catalogs (YAML files or directories).
		Paths []string `yaml:"paths"`
	} `yaml:"explorer"`
	Grapher struct {
		MaxDepth    int `yaml:"max_depth"`
		MaxElements int `yaml:"max_elements"`
	} `yaml:"grapher"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if db := os.Getenv("TYPESCOPE_DB"); db != "" {
		cfg.Storage.Path = db
	}
	if paths := os.Getenv("TYPESCOPE_PATH"); paths != "" {
		cfg.Explorer.Paths = strings.Split(paths, string(os.PathListSeparator))
	}
	if depth := os.Getenv("TYPESCOPE_MAX_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(depth); err == nil {
			cfg.Grapher.MaxDepth = n
		}
	}
	if elements := os.Getenv("TYPESCOPE_MAX_ELEMENTS"); elements != "" {
		if n, err := strconv.Atoi(elements); err == nil {
			cfg.Grapher.MaxElements = n
		}
	}

	return &cfg, nil
}
