package entity

import "time"

// RawResourceRecord is one record produced by a resource fetcher. AWS
// fetchers report a count per type and region; Azure fetchers emit one
// record per resource instance and leave RawCount nil.
type RawResourceRecord struct {
	ProviderTypeCode string `json:"providerTypeCode"`
	Location         string `json:"location"`
	RawCount         *int   `json:"rawCount,omitempty"`
	Name             string `json:"name,omitempty"`
}

// ResourceInventoryEntry represents the aggregated count of a resource type
// in one location.
type ResourceInventoryEntry struct {
	ResourceTypeID string `json:"resource_type"`
	Location       string `json:"location"`
	Count          int    `json:"count"`
}

// RawCostRecord is one monthly billing row produced by a cost fetcher.
type RawCostRecord struct {
	PeriodStart  time.Time `json:"periodStart"`
	TotalCost    float64   `json:"totalCost"`
	CurrencyCode string    `json:"currencyCode"`
}

// CostInventoryEntry represents the spend of one calendar month.
type CostInventoryEntry struct {
	Month    time.Time `json:"month"`
	Cost     float64   `json:"cost"`
	Currency string    `json:"currency"`
}

// AuthorizationResult is the outcome of a credential and permission check.
type AuthorizationResult struct {
	Authorized bool   `json:"authorized"`
	Reason     string `json:"reason,omitempty"`
	AccountID  string `json:"account_id,omitempty"`
}
