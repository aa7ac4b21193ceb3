package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ubuntu/decorate"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const sqliteDriver = "sqlite"

// CatalogueRepositoryImpl implements repository.CatalogueRepository.
// Every call reads the source again; nothing is cached between assessments.
type CatalogueRepositoryImpl struct{}

// NewCatalogueRepository creates a CatalogueRepository.
func NewCatalogueRepository() repository.CatalogueRepository {
	return &CatalogueRepositoryImpl{}
}

// LoadCatalogue opens the source by extension: SQLite datasets (.db,
// .sqlite, .sqlite3) or JSON/YAML/TOML bundles.
func (r *CatalogueRepositoryImpl) LoadCatalogue(ctx context.Context, source string) (cat *entity.Catalogue, err error) {
	defer decorate.OnError(&err, "reading reference catalogue")

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrCatalogueUnavailable, source)
	}

	logger := zerolog.Ctx(ctx)
	ext := strings.ToLower(filepath.Ext(source))

	switch ext {
	case ".db", ".sqlite", ".sqlite3":
		cat, err = loadSQLite(ctx, source)
	default:
		cat, err = LoadFile(source)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", source).
		Int("resource_types", len(cat.ResourceTypes())).
		Int("risks", len(cat.Risks())).
		Msg("Reference catalogue loaded")

	return cat, nil
}

func loadSQLite(ctx context.Context, path string) (*entity.Catalogue, error) {
	db, err := sql.Open(sqliteDriver, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}

	loader, err := NewSQLLoader(db)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}
