package catalogue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ubuntu/decorate"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const (
	resourceTypeQuery = `SELECT id, code, name, icon, csp, status FROM resourcetype ORDER BY id`
	riskQuery         = `SELECT id, name, description, severity FROM risk ORDER BY id`
	technologyQuery   = `SELECT id, product_name, product_description, product_url, open_source, support_plan, status FROM alternativetechnology ORDER BY id`
	alternativeQuery  = `SELECT resource_type, strategy_type, alternative_technology FROM alternative`
)

// SQLLoader reads the catalogue tables from the dataset database.
type SQLLoader struct {
	db *sql.DB
}

func NewSQLLoader(db *sql.DB) (*SQLLoader, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &SQLLoader{db: db}, nil
}

// Load reads all four tables. Any query or row failure makes the catalogue
// unavailable.
func (l *SQLLoader) Load(ctx context.Context) (cat *entity.Catalogue, err error) {
	defer decorate.OnError(&err, "loading catalogue from database")

	var tables rawTables

	if err := queryRows(ctx, l.db, tableResourceType, resourceTypeQuery, func(rows *sql.Rows) error {
		var r rawResourceType
		if err := rows.Scan(&r.ID, &r.Code, &r.Name, &r.Icon, &r.CSP, &r.Status); err != nil {
			return err
		}
		tables.ResourceTypes = append(tables.ResourceTypes, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, l.db, tableRisk, riskQuery, func(rows *sql.Rows) error {
		var r rawRisk
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Severity); err != nil {
			return err
		}
		tables.Risks = append(tables.Risks, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, l.db, tableAlternativeTechnology, technologyQuery, func(rows *sql.Rows) error {
		var r rawTechnology
		if err := rows.Scan(&r.ID, &r.ProductName, &r.ProductDescription, &r.ProductURL, &r.OpenSource, &r.SupportPlan, &r.Status); err != nil {
			return err
		}
		tables.Technologies = append(tables.Technologies, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, l.db, tableAlternative, alternativeQuery, func(rows *sql.Rows) error {
		var r rawAlternative
		if err := rows.Scan(&r.ResourceType, &r.StrategyType, &r.AlternativeTechnology); err != nil {
			return err
		}
		tables.Alternatives = append(tables.Alternatives, r)
		return nil
	}); err != nil {
		return nil, err
	}

	return tables.build()
}

func queryRows(ctx context.Context, db *sql.DB, table, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: query %s: %w", types.ErrCatalogueUnavailable, table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: scan %s: %w", types.ErrCatalogueUnavailable, table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate %s: %w", types.ErrCatalogueUnavailable, table, err)
	}
	return nil
}
