package app

import (
	"errors"
	"time"

	"github.com/vk/nodeflow/internal/host"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPaths    []string // graph documents (.json)
	ManifestsPath string   // optional HCL node definitions

	LogFormat   string
	LogLevel    string
	WorkerCount int
	LogCapacity int
	NodeTimeout time.Duration
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphPaths) == 0 {
		return nil, errors.New("at least one graph path is required")
	}
	for _, p := range cfg.GraphPaths {
		if p == "" {
			return nil, errors.New("graph paths cannot be empty")
		}
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("worker count cannot be negative")
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.LogCapacity < 0 {
		return nil, errors.New("log capacity cannot be negative")
	}
	if cfg.LogCapacity == 0 {
		cfg.LogCapacity = host.DefaultLogCapacity
	}
	if cfg.NodeTimeout < 0 {
		return nil, errors.New("node timeout cannot be negative")
	}
	return &cfg, nil
}
