package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"profile.json": `{
  "cloudServiceProvider": 2,
  "exitStrategy": 3,
  "assessmentType": 1,
  "providerDetails": {"accessKey": "AKIA", "secretKey": "secret", "region": "eu-west-1"}
}`,
		"profile.yaml": `cloudServiceProvider: 2
exitStrategy: 3
assessmentType: 1
providerDetails:
  accessKey: AKIA
  secretKey: secret
  region: eu-west-1
`,
		"profile.toml": `cloudServiceProvider = 2
exitStrategy = 3
assessmentType = 1

[providerDetails]
accessKey = "AKIA"
secretKey = "secret"
region = "eu-west-1"
`,
	}

	repo := NewConfigRepositoryWithAzureConfig(filepath.Join(dir, "missing"), "")
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeFile(t, dir, name, content))
			require.NoError(t, err)

			assert.Equal(t, 2, cfg.CloudServiceProvider)
			assert.Equal(t, 3, cfg.ExitStrategy)
			assert.Equal(t, "AKIA", cfg.ProviderDetails.AccessKey)
			assert.Equal(t, "eu-west-1", cfg.ProviderDetails.Region)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(dir, "absent.json"))
	require.Error(t, err)

	_, err = repo.LoadConfigFile(dir)
	require.Error(t, err)

	_, err = repo.LoadConfigFile(writeFile(t, dir, "profile.ini", "x=1"))
	require.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, dir, "broken.json", "{"))
	require.ErrorContains(t, err, "error parsing JSON file")
}

func TestLoadConfigFile_AzureDefaults(t *testing.T) {
	dir := t.TempDir()
	azureConfig := writeFile(t, dir, "config", `[defaults]
group = rg-prod

[default]
subscription = 00000000-1111-2222-3333-444444444444
tenant = tenant-from-cli
`)
	profile := writeFile(t, dir, "azure.json", `{
  "cloudServiceProvider": 1,
  "exitStrategy": 1,
  "assessmentType": 1,
  "providerDetails": {"clientId": "app", "clientSecret": "s3cret", "tenantId": "explicit-tenant"}
}`)

	cfg, err := NewConfigRepositoryWithAzureConfig(azureConfig, "default").LoadConfigFile(profile)
	require.NoError(t, err)

	assert.Equal(t, "explicit-tenant", cfg.ProviderDetails.TenantID, "explicit values win")
	assert.Equal(t, "00000000-1111-2222-3333-444444444444", cfg.ProviderDetails.SubscriptionID)
	assert.Equal(t, "rg-prod", cfg.ProviderDetails.ResourceGroupName)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg      types.Config
		problems []string
	}{
		"missing azure fields": {
			cfg:      types.Config{CloudServiceProvider: 1, ExitStrategy: 1, AssessmentType: 1},
			problems: []string{"clientId", "clientSecret", "tenantId", "subscriptionId", "resourceGroupName"},
		},
		"unsupported region": {
			cfg: types.Config{CloudServiceProvider: 2, ExitStrategy: 1, AssessmentType: 1,
				ProviderDetails: types.ProviderDetails{AccessKey: "a", SecretKey: "b", Region: "mars-north-1"}},
			problems: []string{`"mars-north-1" is not a supported AWS region`},
		},
		"reserved strategy and unknown assessment": {
			cfg: types.Config{CloudServiceProvider: 2, ExitStrategy: 2, AssessmentType: 2,
				ProviderDetails: types.ProviderDetails{AccessKey: "a", SecretKey: "b", Region: "us-east-1"}},
			problems: []string{"exitStrategy must be 1", "assessmentType must be 1"},
		},
		"unknown provider": {
			cfg:      types.Config{CloudServiceProvider: 3, ExitStrategy: 1, AssessmentType: 1},
			problems: []string{"cloudServiceProvider must be 1 (Azure) or 2 (AWS)"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.ErrorIs(t, err, types.ErrInvalidConfig)
			for _, p := range tt.problems {
				assert.ErrorContains(t, err, p)
			}
		})
	}
}
