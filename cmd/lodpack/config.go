package main

import (
	"fmt"
	"os"

	"github.com/soypat/lodmesh"
	"github.com/soypat/lodmesh/internal/logger"
	"github.com/soypat/lodmesh/quant"
	"gopkg.in/yaml.v3"
)

// config is the lodpack configuration. Values layer as
// defaults < YAML file < command line flags.
type config struct {
	Selector lodmesh.Selector  `yaml:"selector"`
	Quant    quant.Settings    `yaml:"quantization"`
	LogLevel string            `yaml:"log_level"`
	LogFile  logger.FileConfig `yaml:"log_file"`
}

func defaultConfig() config {
	return config{
		Selector: lodmesh.DefaultSelector(),
		Quant:    quant.DefaultSettings(),
		LogLevel: "info",
	}
}

// loadConfig merges the YAML file at path over the defaults. An empty path
// returns the defaults untouched.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}
