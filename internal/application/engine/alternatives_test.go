package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

func TestMatchAlternatives(t *testing.T) {
	techs := []entity.AlternativeTechnology{
		{ID: "10", ProductName: "OpenStack Nova", Active: true, OpenSource: true},
		{ID: "11", ProductName: "Retired VM", Active: false},
		{ID: "12", ProductName: "Proxmox VE", Active: true, HasSupportPlan: true},
		{ID: "20", ProductName: "MinIO", Active: true},
	}
	mappings := []entity.AlternativeMapping{
		{ResourceTypeID: typeVM, ExitStrategyID: "1", AlternativeTechnologyID: "10"},
		{ResourceTypeID: typeVM, ExitStrategyID: "1", AlternativeTechnologyID: "11"},
		{ResourceTypeID: typeVM, ExitStrategyID: "3", AlternativeTechnologyID: "20"},
		{ResourceTypeID: typeVM, ExitStrategyID: "1", AlternativeTechnologyID: "99"},
		{ResourceTypeID: typeVM, ExitStrategyID: "1", AlternativeTechnologyID: "12"},
		{ResourceTypeID: typeBucket, ExitStrategyID: "1", AlternativeTechnologyID: "20"},
	}
	cat := newCatalogue(t, baseResourceTypes(), techs, mappings)

	inventory := []entity.ResourceInventoryEntry{
		{ResourceTypeID: typeBucket, Location: "eu-west-1", Count: 1},
		{ResourceTypeID: typeVM, Location: "eu-west-1", Count: 2},
		{ResourceTypeID: typeBucket, Location: "us-east-1", Count: 1},
		{ResourceTypeID: typeAzureVM, Location: "westeurope", Count: 1},
	}

	matches := MatchAlternatives(testContext(t), inventory, entity.StrategyRepatriation, cat)

	require.Len(t, matches, 3)
	assert.Equal(t, []string{typeBucket, typeVM, typeAzureVM}, []string{
		matches[0].ResourceTypeID, matches[1].ResourceTypeID, matches[2].ResourceTypeID,
	})

	bucket, ok := matches.For(typeBucket)
	require.True(t, ok)
	require.Len(t, bucket, 1)
	assert.Equal(t, "MinIO", bucket[0].ProductName)

	vm, ok := matches.For(typeVM)
	require.True(t, ok)
	require.Len(t, vm, 2)
	assert.Equal(t, "OpenStack Nova", vm[0].ProductName)
	assert.Equal(t, "Proxmox VE", vm[1].ProductName)

	azure, ok := matches.For(typeAzureVM)
	require.True(t, ok, "types without alternatives are still present")
	assert.NotNil(t, azure)
	assert.Empty(t, azure)
}

func TestMatchAlternatives_EmptyInventory(t *testing.T) {
	cat := newCatalogue(t, baseResourceTypes(), nil, nil)

	matches := MatchAlternatives(testContext(t), nil, entity.StrategyAlternateCloud, cat)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	_, ok := matches.For(typeVM)
	assert.False(t, ok)
}
