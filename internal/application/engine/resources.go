package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

type inventoryKey struct {
	resourceTypeID string
	location       string
}

// NormalizeResources aggregates raw fetcher records into the inventory of
// the run, ordered by first appearance. Records with codes outside the
// active catalogue of the provider are dropped, as are records missing a
// code or location. An empty input yields an empty inventory.
func NormalizeResources(ctx context.Context, provider entity.Provider, records []entity.RawResourceRecord, catalogue *entity.Catalogue) []entity.ResourceInventoryEntry {
	logger := zerolog.Ctx(ctx).With().Str("stage", "resources").Int("provider", int(provider)).Logger()

	inventory := make([]entity.ResourceInventoryEntry, 0)
	index := make(map[inventoryKey]int)
	var dropped int

	for _, rec := range records {
		code := strings.TrimSpace(rec.ProviderTypeCode)
		location := normalizeLocation(rec.Location)
		if code == "" || location == "" {
			logger.Debug().Err(types.ErrMalformedInput).
				Str("code", rec.ProviderTypeCode).
				Str("location", rec.Location).
				Msg("Skipping resource record")
			dropped++
			continue
		}

		def, ok := catalogue.ResourceTypeByCode(provider, code)
		if !ok || !def.Active {
			logger.Debug().Str("code", code).Msg("Resource type not tracked")
			dropped++
			continue
		}

		count := 1
		if rec.RawCount != nil {
			count = *rec.RawCount
		}
		if count < 0 {
			logger.Debug().Err(types.ErrMalformedInput).Str("code", code).Int("count", count).Msg("Skipping negative count")
			dropped++
			continue
		}
		if count == 0 {
			continue
		}

		key := inventoryKey{resourceTypeID: def.ID, location: location}
		if i, seen := index[key]; seen {
			inventory[i].Count += count
			continue
		}
		index[key] = len(inventory)
		inventory = append(inventory, entity.ResourceInventoryEntry{
			ResourceTypeID: def.ID,
			Location:       location,
			Count:          count,
		})
	}

	logger.Info().Int("records", len(records)).Int("entries", len(inventory)).Int("dropped", dropped).Msg("Resource inventory normalized")
	return inventory
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
