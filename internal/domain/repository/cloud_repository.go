package repository

import (
	"context"
	"time"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// AuthorizationChecker reports whether the credentials can read the account.
type AuthorizationChecker interface {
	CheckAuthorization(ctx context.Context, details types.ProviderDetails) (entity.AuthorizationResult, error)
}

// ResourceFetcher lists the provisioned resources of the account. codes are
// the active catalogue codes of the provider; fetchers that enumerate
// everything may ignore them.
type ResourceFetcher interface {
	FetchResources(ctx context.Context, details types.ProviderDetails, codes []string) ([]entity.RawResourceRecord, error)
}

// CostFetcher returns monthly billing rows between start and end.
type CostFetcher interface {
	FetchCosts(ctx context.Context, details types.ProviderDetails, start, end time.Time) ([]entity.RawCostRecord, error)
}

// CloudRepository is the full set of collaborators for one provider.
type CloudRepository interface {
	Provider() entity.Provider
	AuthorizationChecker
	ResourceFetcher
	CostFetcher
}
