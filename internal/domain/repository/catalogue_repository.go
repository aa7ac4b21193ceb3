package repository

import (
	"context"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

// CatalogueRepository loads the reference catalogue from a dataset source.
type CatalogueRepository interface {
	LoadCatalogue(ctx context.Context, source string) (*entity.Catalogue, error)
}

// DatasetRepository keeps the local copy of the reference dataset current
// and returns its path.
type DatasetRepository interface {
	EnsureDataset(ctx context.Context, dir string) (string, error)
}
