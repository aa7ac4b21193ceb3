package repository

import (
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// ConfigRepository defines the interface for loading assessment profiles.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
}
