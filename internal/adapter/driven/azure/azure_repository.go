package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/rs/zerolog"
	"github.com/ubuntu/decorate"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Repository implements repository.CloudRepository for one Azure resource
// group.
type Repository struct{}

// NewRepository creates the Azure cloud repository.
func NewRepository() repository.CloudRepository {
	return &Repository{}
}

// Provider identifies the repository as the Azure collaborator.
func (r *Repository) Provider() entity.Provider { return entity.ProviderAzure }

// credential prefers the service principal from the profile and falls back
// to the signed-in Azure CLI account.
func credential(details types.ProviderDetails) (azcore.TokenCredential, error) {
	if details.ClientID != "" && details.ClientSecret != "" && details.TenantID != "" {
		cred, err := azidentity.NewClientSecretCredential(details.TenantID, details.ClientID, details.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create client secret credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: details.TenantID})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
	}
	return cred, nil
}

func costScope(details types.ProviderDetails) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", details.SubscriptionID, details.ResourceGroupName)
}

// CheckAuthorization reads the resource group and checks the cost query API.
// Both must succeed for the group to be assessable.
func (r *Repository) CheckAuthorization(ctx context.Context, details types.ProviderDetails) (entity.AuthorizationResult, error) {
	cred, err := credential(details)
	if err != nil {
		return entity.AuthorizationResult{}, err
	}

	factory, err := armresources.NewClientFactory(details.SubscriptionID, cred, nil)
	if err != nil {
		return entity.AuthorizationResult{}, fmt.Errorf("failed to create resources client: %w", err)
	}

	var missing []string
	if _, err := factory.NewResourceGroupsClient().Get(ctx, details.ResourceGroupName, nil); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Resource group read failed")
		missing = append(missing, "reader access to resource group "+details.ResourceGroupName)
	}

	now := time.Now().UTC()
	if _, err := r.queryCosts(ctx, cred, details, now.AddDate(0, 0, -1), now); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Cost query access check failed")
		missing = append(missing, "cost management reader access")
	}

	if len(missing) > 0 {
		return entity.AuthorizationResult{
			AccountID: details.SubscriptionID,
			Reason:    "missing " + strings.Join(missing, ", "),
		}, nil
	}
	return entity.AuthorizationResult{Authorized: true, AccountID: details.SubscriptionID}, nil
}

// FetchResources lists every resource of the group, one record per
// resource. The catalogue codes are not needed: unknown types are dropped
// during normalization.
func (r *Repository) FetchResources(ctx context.Context, details types.ProviderDetails, _ []string) (records []entity.RawResourceRecord, err error) {
	defer decorate.OnError(&err, "fetching Azure resources of %s", details.ResourceGroupName)

	cred, err := credential(details)
	if err != nil {
		return nil, err
	}

	factory, err := armresources.NewClientFactory(details.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources client: %w", err)
	}

	var resources []*armresources.GenericResourceExpanded
	pager := factory.NewClient().NewListByResourceGroupPager(details.ResourceGroupName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resources: %w", err)
		}
		resources = append(resources, page.Value...)
	}

	records = resourceRecords(resources)
	zerolog.Ctx(ctx).Info().Int("resources", len(records)).Msg("Azure resource listing complete")
	return records, nil
}

// resourceRecords converts listed resources to raw records, dropping
// repeats of the same resource id across pages.
func resourceRecords(resources []*armresources.GenericResourceExpanded) []entity.RawResourceRecord {
	seen := make(map[string]bool, len(resources))
	records := make([]entity.RawResourceRecord, 0, len(resources))

	for _, res := range resources {
		if res == nil {
			continue
		}
		id := strings.ToLower(deref(res.ID))
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		records = append(records, entity.RawResourceRecord{
			ProviderTypeCode: deref(res.Type),
			Location:         deref(res.Location),
			Name:             deref(res.Name),
		})
	}
	return records
}

// FetchCosts runs a monthly cost query over the resource group scope.
func (r *Repository) FetchCosts(ctx context.Context, details types.ProviderDetails, start, end time.Time) (records []entity.RawCostRecord, err error) {
	defer decorate.OnError(&err, "fetching Azure costs of %s", details.ResourceGroupName)

	if !end.After(start) {
		return nil, fmt.Errorf("%w: empty cost period", types.ErrMalformedInput)
	}

	cred, err := credential(details)
	if err != nil {
		return nil, err
	}

	result, err := r.queryCosts(ctx, cred, details, start, end)
	if err != nil {
		return nil, err
	}
	if result.Properties == nil {
		return nil, nil
	}

	records = costRecords(ctx, result.Properties.Columns, result.Properties.Rows)
	zerolog.Ctx(ctx).Info().Int("months", len(records)).Msg("Azure cost query complete")
	return records, nil
}

func (r *Repository) queryCosts(ctx context.Context, cred azcore.TokenCredential, details types.ProviderDetails, start, end time.Time) (armcostmanagement.QueryClientUsageResponse, error) {
	factory, err := armcostmanagement.NewClientFactory(cred, nil)
	if err != nil {
		return armcostmanagement.QueryClientUsageResponse{}, fmt.Errorf("failed to create cost management client: %w", err)
	}

	resp, err := factory.NewQueryClient().Usage(ctx, costScope(details), costQueryDefinition(start, end), nil)
	if err != nil {
		return armcostmanagement.QueryClientUsageResponse{}, fmt.Errorf("failed to query costs: %w", err)
	}
	return resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
