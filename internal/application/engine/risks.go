package engine

import (
	"fmt"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Thresholds of the scoring rules.
const (
	minHealthyAlternatives = 3
	resourceCountHigh      = 15
	resourceCountVeryHigh  = 30
)

// AssessRisks scores the inventory for the requested exit strategy.
//
// Every inventory entry is evaluated on its own, so a resource type found in
// two locations yields its per-resource findings twice. Account-wide
// findings carry a nil resource type. The result only depends on the
// arguments.
func AssessRisks(inventory []entity.ResourceInventoryEntry, strategy entity.ExitStrategy, catalogue *entity.Catalogue) ([]entity.RiskFinding, error) {
	strategyID := strategy.ID()
	findings := make([]entity.RiskFinding, 0)

	totalResources := 0
	distinctTypes := make(map[string]struct{})

	for _, entry := range inventory {
		totalResources += entry.Count
		distinctTypes[entry.ResourceTypeID] = struct{}{}

		relevant := catalogue.MappingsFor(entry.ResourceTypeID, strategyID)
		supported := 0
		for _, m := range relevant {
			if tech, ok := catalogue.Technology(m.AlternativeTechnologyID); ok && tech.HasSupportPlan {
				supported++
			}
		}

		typeID := entry.ResourceTypeID
		switch n := len(relevant); {
		case n == 0:
			findings = append(findings, resourceFinding(typeID, entity.RiskNoAlternatives))
		case n < minHealthyAlternatives:
			findings = append(findings, resourceFinding(typeID, entity.RiskFewAlternatives))
		}
		switch {
		case supported == 0:
			findings = append(findings, resourceFinding(typeID, entity.RiskNoSupportedAlternatives))
		case supported < minHealthyAlternatives:
			findings = append(findings, resourceFinding(typeID, entity.RiskFewSupportedAlternatives))
		}
	}

	switch {
	case totalResources > resourceCountVeryHigh:
		findings = append(findings, entity.RiskFinding{RiskID: entity.RiskVeryHighResourceCount})
	case totalResources > resourceCountHigh:
		findings = append(findings, entity.RiskFinding{RiskID: entity.RiskHighResourceCount})
	}

	switch n := len(distinctTypes); {
	case n > resourceCountVeryHigh:
		findings = append(findings, entity.RiskFinding{RiskID: entity.RiskVeryHighResourceTypeCount})
	case n > resourceCountHigh:
		findings = append(findings, entity.RiskFinding{RiskID: entity.RiskHighResourceTypeCount})
	}

	for _, f := range findings {
		if _, ok := catalogue.Risk(f.RiskID); !ok {
			return nil, fmt.Errorf("%w: risk %s has no definition in the catalogue", types.ErrAssessment, f.RiskID)
		}
	}

	return findings, nil
}

func resourceFinding(resourceTypeID, riskID string) entity.RiskFinding {
	id := resourceTypeID
	return entity.RiskFinding{ResourceTypeID: &id, RiskID: riskID}
}
