package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the pipeline configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at configPath, resolved against cwd when relative.
	// A missing configuration yields the built-in default pipeline rooted at cwd.
	Load(cwd, configPath string) (*domain.Pipeline, error)
}
