package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/ubuntu/decorate"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const azureProviderID = 1

// ConfigRepositoryImpl implements repository.ConfigRepository.
type ConfigRepositoryImpl struct {
	// azureConfigPath points at the Azure CLI config used to fill gaps in
	// Azure profiles. Empty means ~/.azure/config.
	azureConfigPath string
	azureProfile    string
}

// NewConfigRepository creates a ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{azureProfile: "default"}
}

// NewConfigRepositoryWithAzureConfig reads Azure fallbacks from the given ini
// file and profile section.
func NewConfigRepositoryWithAzureConfig(path, profile string) repository.ConfigRepository {
	if profile == "" {
		profile = "default"
	}
	return &ConfigRepositoryImpl{azureConfigPath: path, azureProfile: profile}
}

// LoadConfigFile loads a TOML, YAML or JSON assessment profile.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (cfg *types.Config, err error) {
	defer decorate.OnError(&err, "loading assessment profile %s", filePath)

	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if config.CloudServiceProvider == azureProviderID {
		r.applyAzureDefaults(&config.ProviderDetails)
	}

	return &config, nil
}

// applyAzureDefaults fills empty Azure fields from the Azure CLI config.
// A missing or unreadable file leaves the details untouched.
func (r *ConfigRepositoryImpl) applyAzureDefaults(details *types.ProviderDetails) {
	path := r.azureConfigPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		path = filepath.Join(home, ".azure", "config")
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return
	}

	section := cfg.Section(r.azureProfile)
	defaults := cfg.Section("defaults")

	fill := func(field *string, value string) {
		if strings.TrimSpace(*field) == "" {
			*field = value
		}
	}
	fill(&details.SubscriptionID, section.Key("subscription").String())
	fill(&details.TenantID, section.Key("tenant").String())
	fill(&details.ClientID, section.Key("client_id").String())
	fill(&details.ResourceGroupName, defaults.Key("group").String())
}
