package catalogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Table names of the reference dataset. Flat-file bundles use the same
// names as top-level keys.
const (
	tableResourceType          = "resourcetype"
	tableRisk                  = "risk"
	tableAlternativeTechnology = "alternativetechnology"
	tableAlternative           = "alternative"
)

var requiredTables = []string{tableResourceType, tableRisk, tableAlternativeTechnology, tableAlternative}

// Raw rows keep the dataset column names and untyped values; SQLite, JSON,
// YAML and TOML all disagree on how ids and flags are typed.

type rawResourceType struct {
	ID     any `json:"id" yaml:"id" toml:"id"`
	Code   any `json:"code" yaml:"code" toml:"code"`
	Name   any `json:"name" yaml:"name" toml:"name"`
	Icon   any `json:"icon" yaml:"icon" toml:"icon"`
	CSP    any `json:"csp" yaml:"csp" toml:"csp"`
	Status any `json:"status" yaml:"status" toml:"status"`
}

type rawRisk struct {
	ID          any `json:"id" yaml:"id" toml:"id"`
	Name        any `json:"name" yaml:"name" toml:"name"`
	Description any `json:"description" yaml:"description" toml:"description"`
	Severity    any `json:"severity" yaml:"severity" toml:"severity"`
}

type rawTechnology struct {
	ID                 any `json:"id" yaml:"id" toml:"id"`
	ProductName        any `json:"product_name" yaml:"product_name" toml:"product_name"`
	ProductDescription any `json:"product_description" yaml:"product_description" toml:"product_description"`
	ProductURL         any `json:"product_url" yaml:"product_url" toml:"product_url"`
	OpenSource         any `json:"open_source" yaml:"open_source" toml:"open_source"`
	SupportPlan        any `json:"support_plan" yaml:"support_plan" toml:"support_plan"`
	Status             any `json:"status" yaml:"status" toml:"status"`
}

type rawAlternative struct {
	ResourceType          any `json:"resource_type" yaml:"resource_type" toml:"resource_type"`
	StrategyType          any `json:"strategy_type" yaml:"strategy_type" toml:"strategy_type"`
	AlternativeTechnology any `json:"alternative_technology" yaml:"alternative_technology" toml:"alternative_technology"`
}

type rawTables struct {
	ResourceTypes []rawResourceType `json:"resourcetype" yaml:"resourcetype" toml:"resourcetype"`
	Risks         []rawRisk         `json:"risk" yaml:"risk" toml:"risk"`
	Technologies  []rawTechnology   `json:"alternativetechnology" yaml:"alternativetechnology" toml:"alternativetechnology"`
	Alternatives  []rawAlternative  `json:"alternative" yaml:"alternative" toml:"alternative"`
}

// build normalizes the raw tables and indexes them into a Catalogue.
func (t rawTables) build() (*entity.Catalogue, error) {
	resourceTypes := make([]entity.ResourceTypeDef, 0, len(t.ResourceTypes))
	for i, row := range t.ResourceTypes {
		def, err := row.toEntity()
		if err != nil {
			return nil, malformed(tableResourceType, i, err)
		}
		resourceTypes = append(resourceTypes, def)
	}

	risks := make([]entity.RiskDef, 0, len(t.Risks))
	for i, row := range t.Risks {
		def, err := row.toEntity()
		if err != nil {
			return nil, malformed(tableRisk, i, err)
		}
		risks = append(risks, def)
	}

	technologies := make([]entity.AlternativeTechnology, 0, len(t.Technologies))
	for i, row := range t.Technologies {
		tech, err := row.toEntity()
		if err != nil {
			return nil, malformed(tableAlternativeTechnology, i, err)
		}
		technologies = append(technologies, tech)
	}

	mappings := make([]entity.AlternativeMapping, 0, len(t.Alternatives))
	for i, row := range t.Alternatives {
		m, err := row.toEntity()
		if err != nil {
			return nil, malformed(tableAlternative, i, err)
		}
		mappings = append(mappings, m)
	}

	return entity.NewCatalogue(resourceTypes, risks, technologies, mappings)
}

func malformed(table string, row int, err error) error {
	return fmt.Errorf("%w: %s row %d: %w", types.ErrCatalogueUnavailable, table, row+1, err)
}

func (r rawResourceType) toEntity() (entity.ResourceTypeDef, error) {
	id, err := entity.NormalizeID(r.ID)
	if err != nil {
		return entity.ResourceTypeDef{}, fmt.Errorf("id: %w", err)
	}
	csp, err := entity.NormalizeID(r.CSP)
	if err != nil {
		return entity.ResourceTypeDef{}, fmt.Errorf("csp: %w", err)
	}
	provider, err := strconv.Atoi(csp)
	if err != nil {
		return entity.ResourceTypeDef{}, fmt.Errorf("csp %q: %w", csp, types.ErrMalformedInput)
	}
	active, err := entity.ParseFlag(r.Status)
	if err != nil {
		return entity.ResourceTypeDef{}, fmt.Errorf("status: %w", err)
	}
	code := text(r.Code)
	if strings.TrimSpace(code) == "" {
		return entity.ResourceTypeDef{}, fmt.Errorf("code: %w", types.ErrMalformedInput)
	}
	return entity.ResourceTypeDef{
		ID:       id,
		Code:     code,
		Name:     text(r.Name),
		Icon:     text(r.Icon),
		Provider: entity.Provider(provider),
		Active:   active,
	}, nil
}

func (r rawRisk) toEntity() (entity.RiskDef, error) {
	id, err := entity.NormalizeID(r.ID)
	if err != nil {
		return entity.RiskDef{}, fmt.Errorf("id: %w", err)
	}
	severity, ok := entity.ParseSeverity(text(r.Severity))
	if !ok {
		return entity.RiskDef{}, fmt.Errorf("severity %q: %w", text(r.Severity), types.ErrMalformedInput)
	}
	return entity.RiskDef{
		ID:          id,
		Name:        text(r.Name),
		Description: text(r.Description),
		Severity:    severity,
	}, nil
}

func (r rawTechnology) toEntity() (entity.AlternativeTechnology, error) {
	id, err := entity.NormalizeID(r.ID)
	if err != nil {
		return entity.AlternativeTechnology{}, fmt.Errorf("id: %w", err)
	}
	openSource, err := entity.ParseFlag(r.OpenSource)
	if err != nil {
		return entity.AlternativeTechnology{}, fmt.Errorf("open_source: %w", err)
	}
	supportPlan, err := entity.ParseFlag(r.SupportPlan)
	if err != nil {
		return entity.AlternativeTechnology{}, fmt.Errorf("support_plan: %w", err)
	}
	active, err := entity.ParseFlag(r.Status)
	if err != nil {
		return entity.AlternativeTechnology{}, fmt.Errorf("status: %w", err)
	}
	return entity.AlternativeTechnology{
		ID:                 id,
		ProductName:        text(r.ProductName),
		ProductDescription: text(r.ProductDescription),
		ProductURL:         text(r.ProductURL),
		OpenSource:         openSource,
		HasSupportPlan:     supportPlan,
		Active:             active,
	}, nil
}

func (r rawAlternative) toEntity() (entity.AlternativeMapping, error) {
	resourceType, err := entity.NormalizeID(r.ResourceType)
	if err != nil {
		return entity.AlternativeMapping{}, fmt.Errorf("resource_type: %w", err)
	}
	strategy, err := entity.NormalizeID(r.StrategyType)
	if err != nil {
		return entity.AlternativeMapping{}, fmt.Errorf("strategy_type: %w", err)
	}
	tech, err := entity.NormalizeID(r.AlternativeTechnology)
	if err != nil {
		return entity.AlternativeMapping{}, fmt.Errorf("alternative_technology: %w", err)
	}
	return entity.AlternativeMapping{
		ResourceTypeID:          resourceType,
		ExitStrategyID:          strategy,
		AlternativeTechnologyID: tech,
	}, nil
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
