package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

const (
	typeVM       = "1"
	typeBucket   = "2"
	typeAzureVM  = "3"
	typeInactive = "4"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func baseResourceTypes() []entity.ResourceTypeDef {
	return []entity.ResourceTypeDef{
		{ID: typeVM, Code: "AWS.ec2.DescribeInstances.Reservations", Name: "Virtual Machine", Icon: "assets/icons/vm.png", Provider: entity.ProviderAWS, Active: true},
		{ID: typeBucket, Code: "AWS.s3.ListBuckets.Buckets", Name: "Object Storage", Provider: entity.ProviderAWS, Active: true},
		{ID: typeAzureVM, Code: "Microsoft.Compute/virtualMachines", Name: "Virtual Machine", Icon: "assets/icons/vm.png", Provider: entity.ProviderAzure, Active: true},
		{ID: typeInactive, Code: "AWS.lambda.ListFunctions.Functions", Name: "Function", Provider: entity.ProviderAWS, Active: false},
	}
}

func baseRisks() []entity.RiskDef {
	return []entity.RiskDef{
		{ID: "1", Name: "Few alternatives", Severity: entity.SeverityMedium},
		{ID: "2", Name: "No alternatives", Severity: entity.SeverityHigh},
		{ID: "3", Name: "Few supported alternatives", Severity: entity.SeverityLow},
		{ID: "4", Name: "No supported alternatives", Severity: entity.SeverityMedium},
		{ID: "5", Name: "High resource count", Severity: entity.SeverityLow},
		{ID: "6", Name: "Very high resource count", Severity: entity.SeverityMedium},
		{ID: "7", Name: "High resource type count", Severity: entity.SeverityMedium},
		{ID: "8", Name: "Very high resource type count", Severity: entity.SeverityHigh},
	}
}

// alternativesFor builds n technologies mapped to the resource type for
// the strategy, the first supported of them carrying a support plan.
func alternativesFor(resourceTypeID string, strategy entity.ExitStrategy, n, supported int) ([]entity.AlternativeTechnology, []entity.AlternativeMapping) {
	var techs []entity.AlternativeTechnology
	var mappings []entity.AlternativeMapping
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%d-%d", resourceTypeID, strategy, i)
		techs = append(techs, entity.AlternativeTechnology{
			ID:             id,
			ProductName:    "Product " + id,
			HasSupportPlan: i < supported,
			Active:         true,
		})
		mappings = append(mappings, entity.AlternativeMapping{
			ResourceTypeID:          resourceTypeID,
			ExitStrategyID:          strategy.ID(),
			AlternativeTechnologyID: id,
		})
	}
	return techs, mappings
}

func newCatalogue(t *testing.T, resourceTypes []entity.ResourceTypeDef, techs []entity.AlternativeTechnology, mappings []entity.AlternativeMapping) *entity.Catalogue {
	t.Helper()
	cat, err := entity.NewCatalogue(resourceTypes, baseRisks(), techs, mappings)
	require.NoError(t, err)
	return cat
}

// manyTypesCatalogue holds n active AWS resource types with ids "t1".."tn".
func manyTypesCatalogue(t *testing.T, n int) *entity.Catalogue {
	t.Helper()
	var defs []entity.ResourceTypeDef
	for i := 1; i <= n; i++ {
		defs = append(defs, entity.ResourceTypeDef{
			ID:       fmt.Sprintf("t%d", i),
			Code:     fmt.Sprintf("AWS.svc%d.List.Items", i),
			Name:     fmt.Sprintf("Type %d", i),
			Provider: entity.ProviderAWS,
			Active:   true,
		})
	}
	return newCatalogue(t, defs, nil, nil)
}

func intPtr(v int) *int { return &v }

func riskIDs(findings []entity.RiskFinding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.RiskID)
	}
	return ids
}
