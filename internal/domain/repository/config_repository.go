package repository

import (
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// Load merges defaults, an optional file and the process environment.
	Load(filePath string) (*types.Config, error)
}
