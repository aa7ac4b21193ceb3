package types

import (
	"fmt"
	"slices"
	"strings"
)

// SupportedAWSRegions lists the regions an AWS assessment may target.
var SupportedAWSRegions = []string{
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"af-south-1", "ap-east-1", "ap-south-1",
	"ap-northeast-1", "ap-northeast-2", "ap-northeast-3",
	"ap-southeast-1", "ap-southeast-2", "ca-central-1",
	"eu-central-1", "eu-west-1", "eu-west-2", "eu-west-3",
	"eu-south-1", "eu-north-1", "me-south-1", "sa-east-1",
}

// ProviderDetails carries the credentials and scope of the assessed account.
type ProviderDetails struct {
	// AWS
	AccessKey string `json:"accessKey" yaml:"accessKey" toml:"accessKey"`
	SecretKey string `json:"secretKey" yaml:"secretKey" toml:"secretKey"`
	Region    string `json:"region" yaml:"region" toml:"region"`
	Profile   string `json:"profile,omitempty" yaml:"profile,omitempty" toml:"profile,omitempty"`

	// Azure
	ClientID          string `json:"clientId" yaml:"clientId" toml:"clientId"`
	ClientSecret      string `json:"clientSecret" yaml:"clientSecret" toml:"clientSecret"`
	TenantID          string `json:"tenantId" yaml:"tenantId" toml:"tenantId"`
	SubscriptionID    string `json:"subscriptionId" yaml:"subscriptionId" toml:"subscriptionId"`
	ResourceGroupName string `json:"resourceGroupName" yaml:"resourceGroupName" toml:"resourceGroupName"`
}

// Config represents the assessment profile that can be loaded from a file.
type Config struct {
	CloudServiceProvider int             `json:"cloudServiceProvider" yaml:"cloudServiceProvider" toml:"cloudServiceProvider"`
	ExitStrategy         int             `json:"exitStrategy" yaml:"exitStrategy" toml:"exitStrategy"`
	AssessmentType       int             `json:"assessmentType" yaml:"assessmentType" toml:"assessmentType"`
	ProviderDetails      ProviderDetails `json:"providerDetails" yaml:"providerDetails" toml:"providerDetails"`
	ReportType           []string        `json:"reportType,omitempty" yaml:"reportType,omitempty" toml:"reportType,omitempty"`
	Dir                  string          `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
}

// Validate reports every problem of the profile at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.CloudServiceProvider {
	case 1:
		d := c.ProviderDetails
		for _, f := range []struct{ name, value string }{
			{"clientId", d.ClientID},
			{"clientSecret", d.ClientSecret},
			{"tenantId", d.TenantID},
			{"subscriptionId", d.SubscriptionID},
			{"resourceGroupName", d.ResourceGroupName},
		} {
			if strings.TrimSpace(f.value) == "" {
				problems = append(problems, fmt.Sprintf("providerDetails.%s is required for Azure", f.name))
			}
		}
	case 2:
		d := c.ProviderDetails
		if d.Profile == "" {
			if strings.TrimSpace(d.AccessKey) == "" {
				problems = append(problems, "providerDetails.accessKey is required for AWS")
			}
			if strings.TrimSpace(d.SecretKey) == "" {
				problems = append(problems, "providerDetails.secretKey is required for AWS")
			}
		}
		if strings.TrimSpace(d.Region) == "" {
			problems = append(problems, "providerDetails.region is required for AWS")
		} else if !slices.Contains(SupportedAWSRegions, d.Region) {
			problems = append(problems, fmt.Sprintf("providerDetails.region %q is not a supported AWS region", d.Region))
		}
	default:
		problems = append(problems, fmt.Sprintf("cloudServiceProvider must be 1 (Azure) or 2 (AWS), got %d", c.CloudServiceProvider))
	}

	if c.ExitStrategy != 1 && c.ExitStrategy != 3 {
		problems = append(problems, fmt.Sprintf("exitStrategy must be 1 (Repatriation) or 3 (Alternate Cloud), got %d", c.ExitStrategy))
	}
	if c.AssessmentType != 1 {
		problems = append(problems, fmt.Sprintf("assessmentType must be 1 (Basic), got %d", c.AssessmentType))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
