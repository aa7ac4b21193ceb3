package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// MatchAlternatives resolves the active technologies mapped to each distinct
// resource type of the inventory for the strategy. Types keep their
// inventory order and technologies keep catalogue order. A type without
// matches is present with an empty list.
func MatchAlternatives(ctx context.Context, inventory []entity.ResourceInventoryEntry, strategy entity.ExitStrategy, catalogue *entity.Catalogue) entity.AlternativeMatches {
	logger := zerolog.Ctx(ctx).With().Str("stage", "alternatives").Logger()
	strategyID := strategy.ID()

	matches := make(entity.AlternativeMatches, 0)
	seen := make(map[string]struct{})

	for _, entry := range inventory {
		if _, dup := seen[entry.ResourceTypeID]; dup {
			continue
		}
		seen[entry.ResourceTypeID] = struct{}{}

		techs := make([]entity.AlternativeTechnology, 0)
		for _, m := range catalogue.MappingsFor(entry.ResourceTypeID, strategyID) {
			tech, ok := catalogue.Technology(m.AlternativeTechnologyID)
			if !ok {
				logger.Debug().Err(types.ErrUnknownReference).
					Str("resource_type", entry.ResourceTypeID).
					Str("technology", m.AlternativeTechnologyID).
					Msg("Mapping references a missing technology")
				continue
			}
			if !tech.Active {
				continue
			}
			techs = append(techs, tech)
		}

		matches = append(matches, entity.AlternativeMatch{
			ResourceTypeID: entry.ResourceTypeID,
			Technologies:   techs,
		})
	}

	return matches
}
