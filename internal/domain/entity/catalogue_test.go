package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

func sampleRisks() []RiskDef {
	return []RiskDef{{ID: "1", Name: "Few alternatives", Severity: SeverityMedium}}
}

func TestNewCatalogue_Lookups(t *testing.T) {
	cat, err := NewCatalogue(
		[]ResourceTypeDef{
			{ID: " 1 ", Code: "AWS.ec2.DescribeInstances.Reservations", Provider: ProviderAWS, Active: true},
			{ID: "2", Code: "Microsoft.Compute/virtualMachines", Provider: ProviderAzure, Active: false},
			{ID: "3", Code: "microsoft.compute/virtualmachines", Provider: ProviderAzure, Active: true},
		},
		sampleRisks(),
		[]AlternativeTechnology{{ID: "7", ProductName: "Proxmox", Active: true}},
		[]AlternativeMapping{
			{ResourceTypeID: "1", ExitStrategyID: "1", AlternativeTechnologyID: "7"},
			{ResourceTypeID: "1", ExitStrategyID: "3", AlternativeTechnologyID: "7"},
		},
	)
	require.NoError(t, err)

	def, ok := cat.ResourceTypeByCode(ProviderAWS, "  aws.EC2.describeinstances.reservations ")
	require.True(t, ok)
	assert.Equal(t, "1", def.ID)

	_, ok = cat.ResourceTypeByCode(ProviderAzure, "AWS.ec2.DescribeInstances.Reservations")
	assert.False(t, ok, "codes are scoped by provider")

	def, ok = cat.ResourceTypeByCode(ProviderAzure, "MICROSOFT.COMPUTE/VIRTUALMACHINES")
	require.True(t, ok)
	assert.Equal(t, "3", def.ID, "an active row wins over an inactive one with the same code")

	assert.Len(t, cat.MappingsFor("1", "1"), 1)
	assert.Empty(t, cat.MappingsFor("1", "2"))
	assert.Equal(t, []string{"AWS.ec2.DescribeInstances.Reservations"}, cat.ActiveCodes(ProviderAWS))

	_, ok = cat.Risk("1")
	assert.True(t, ok)
	_, ok = cat.Technology("8")
	assert.False(t, ok)
}

func TestNewCatalogue_Rejects(t *testing.T) {
	validTypes := []ResourceTypeDef{{ID: "1", Code: "x", Provider: ProviderAWS, Active: true}}

	tests := map[string]struct {
		types    []ResourceTypeDef
		risks    []RiskDef
		techs    []AlternativeTechnology
		mappings []AlternativeMapping
	}{
		"no resource types": {risks: sampleRisks()},
		"no risks":          {types: validTypes},
		"duplicate type id": {
			types: []ResourceTypeDef{{ID: "1", Code: "a"}, {ID: "1", Code: "b"}},
			risks: sampleRisks(),
		},
		"bad severity": {
			types: validTypes,
			risks: []RiskDef{{ID: "1", Severity: "critical"}},
		},
		"technology without id": {
			types: validTypes,
			risks: sampleRisks(),
			techs: []AlternativeTechnology{{ProductName: "nameless"}},
		},
		"mapping without technology": {
			types:    validTypes,
			risks:    sampleRisks(),
			mappings: []AlternativeMapping{{ResourceTypeID: "1", ExitStrategyID: "1"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalogue(tt.types, tt.risks, tt.techs, tt.mappings)
			require.ErrorIs(t, err, types.ErrCatalogueUnavailable)
		})
	}
}

func TestNormalizeID(t *testing.T) {
	valid := []struct {
		in   any
		want string
	}{
		{"12", "12"},
		{" 12 ", "12"},
		{12, "12"},
		{int64(12), "12"},
		{uint32(12), "12"},
		{12.0, "12"},
		{json.Number("12"), "12"},
		{json.Number("12.0"), "12"},
		{json.Number("1.2e1"), "12"},
		{[]byte("12"), "12"},
	}
	for _, tt := range valid {
		got, err := NormalizeID(tt.in)
		require.NoError(t, err, "%#v", tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, in := range []any{nil, "", 1.5, json.Number("1.5"), struct{}{}} {
		_, err := NormalizeID(in)
		assert.ErrorIs(t, err, types.ErrMalformedInput, "%#v", in)
	}
}

func TestParseFlag(t *testing.T) {
	for _, in := range []any{"t", "TRUE", true, int64(1), []byte("t")} {
		got, err := ParseFlag(in)
		require.NoError(t, err)
		assert.True(t, got, "%#v", in)
	}
	for _, in := range []any{"f", "", nil, false, int64(0)} {
		got, err := ParseFlag(in)
		require.NoError(t, err)
		assert.False(t, got, "%#v", in)
	}
	_, err := ParseFlag("maybe")
	assert.ErrorIs(t, err, types.ErrMalformedInput)
}
