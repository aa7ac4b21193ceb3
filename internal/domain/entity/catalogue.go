package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Provider identifies the cloud service provider under assessment.
type Provider int

const (
	ProviderAzure Provider = 1
	ProviderAWS   Provider = 2
)

// ID returns the canonical catalogue identifier of the provider.
func (p Provider) ID() string { return strconv.Itoa(int(p)) }

// Valid reports whether the provider is one the assessment supports.
func (p Provider) Valid() bool { return p == ProviderAzure || p == ProviderAWS }

func (p Provider) String() string {
	switch p {
	case ProviderAzure:
		return "Microsoft Azure"
	case ProviderAWS:
		return "Amazon Web Services"
	default:
		return "Unknown Provider"
	}
}

// ExitStrategy is the migration approach used to filter alternatives.
type ExitStrategy int

const (
	StrategyRepatriation   ExitStrategy = 1
	StrategyHybridCloud    ExitStrategy = 2 // reserved
	StrategyAlternateCloud ExitStrategy = 3
)

// ID returns the canonical catalogue identifier of the strategy.
func (s ExitStrategy) ID() string { return strconv.Itoa(int(s)) }

// Valid reports whether the strategy can be requested. Hybrid is reserved.
func (s ExitStrategy) Valid() bool { return s == StrategyRepatriation || s == StrategyAlternateCloud }

func (s ExitStrategy) String() string {
	switch s {
	case StrategyRepatriation:
		return "Repatriation to On-Premises"
	case StrategyHybridCloud:
		return "Hybrid Cloud Adoption"
	case StrategyAlternateCloud:
		return "Migration to Alternate Cloud"
	default:
		return "Unknown Strategy"
	}
}

// AssessmentType selects the depth of the assessment.
type AssessmentType int

const AssessmentBasic AssessmentType = 1

func (a AssessmentType) Valid() bool { return a == AssessmentBasic }

func (a AssessmentType) String() string {
	if a == AssessmentBasic {
		return "Basic"
	}
	return "Unknown Assessment"
}

// Severity grades a risk definition.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity accepts any casing and surrounding whitespace.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	}
	return "", false
}

// Rank orders severities for display, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ResourceTypeDef represents a tracked resource type keyed to a provider code.
type ResourceTypeDef struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Code     string   `json:"code" yaml:"code" toml:"code"`
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Icon     string   `json:"icon" yaml:"icon" toml:"icon"`
	Provider Provider `json:"provider" yaml:"provider" toml:"provider"`
	Active   bool     `json:"active" yaml:"active" toml:"active"`
}

// RiskDef represents a risk definition.
type RiskDef struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Severity    Severity `json:"severity" yaml:"severity" toml:"severity"`
}

// AlternativeTechnology represents a product that can replace a cloud service.
type AlternativeTechnology struct {
	ID                 string `json:"id" yaml:"id" toml:"id"`
	ProductName        string `json:"product_name" yaml:"product_name" toml:"product_name"`
	ProductDescription string `json:"product_description" yaml:"product_description" toml:"product_description"`
	ProductURL         string `json:"product_url" yaml:"product_url" toml:"product_url"`
	OpenSource         bool   `json:"open_source" yaml:"open_source" toml:"open_source"`
	HasSupportPlan     bool   `json:"support_plan" yaml:"support_plan" toml:"support_plan"`
	Active             bool   `json:"active" yaml:"active" toml:"active"`
}

// AlternativeMapping links a resource type and exit strategy to a technology.
type AlternativeMapping struct {
	ResourceTypeID          string `json:"resource_type_id" yaml:"resource_type_id" toml:"resource_type_id"`
	ExitStrategyID          string `json:"exit_strategy_id" yaml:"exit_strategy_id" toml:"exit_strategy_id"`
	AlternativeTechnologyID string `json:"alternative_technology_id" yaml:"alternative_technology_id" toml:"alternative_technology_id"`
}

type codeKey struct {
	provider Provider
	code     string
}

// Catalogue is the immutable reference data for one assessment run.
// Build it with NewCatalogue; accessors return copies.
type Catalogue struct {
	resourceTypes []ResourceTypeDef
	risks         []RiskDef
	technologies  []AlternativeTechnology
	mappings      []AlternativeMapping

	typeByID   map[string]int
	typeByCode map[codeKey]int
	riskByID   map[string]int
	techByID   map[string]int
}

// NewCatalogue validates and indexes the four reference tables. Resource
// types and risks are mandatory; technologies and mappings may be empty.
func NewCatalogue(resourceTypes []ResourceTypeDef, risks []RiskDef, technologies []AlternativeTechnology, mappings []AlternativeMapping) (*Catalogue, error) {
	if len(resourceTypes) == 0 {
		return nil, fmt.Errorf("%w: resource type table is empty", types.ErrCatalogueUnavailable)
	}
	if len(risks) == 0 {
		return nil, fmt.Errorf("%w: risk table is empty", types.ErrCatalogueUnavailable)
	}

	c := &Catalogue{
		resourceTypes: make([]ResourceTypeDef, 0, len(resourceTypes)),
		risks:         make([]RiskDef, 0, len(risks)),
		technologies:  make([]AlternativeTechnology, 0, len(technologies)),
		mappings:      make([]AlternativeMapping, 0, len(mappings)),
		typeByID:      make(map[string]int, len(resourceTypes)),
		typeByCode:    make(map[codeKey]int, len(resourceTypes)),
		riskByID:      make(map[string]int, len(risks)),
		techByID:      make(map[string]int, len(technologies)),
	}

	for _, rt := range resourceTypes {
		rt.ID = strings.TrimSpace(rt.ID)
		if rt.ID == "" {
			return nil, fmt.Errorf("%w: resource type without id (code %q)", types.ErrCatalogueUnavailable, rt.Code)
		}
		if _, dup := c.typeByID[rt.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate resource type id %s", types.ErrCatalogueUnavailable, rt.ID)
		}
		c.typeByID[rt.ID] = len(c.resourceTypes)
		key := codeKey{provider: rt.Provider, code: NormalizeCode(rt.Code)}
		// the first active row wins a code collision
		if prev, seen := c.typeByCode[key]; !seen || (!c.resourceTypes[prev].Active && rt.Active) {
			c.typeByCode[key] = len(c.resourceTypes)
		}
		c.resourceTypes = append(c.resourceTypes, rt)
	}

	for _, r := range risks {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("%w: risk without id", types.ErrCatalogueUnavailable)
		}
		if r.Severity.Rank() == 0 {
			return nil, fmt.Errorf("%w: risk %s has invalid severity %q", types.ErrCatalogueUnavailable, r.ID, r.Severity)
		}
		if _, dup := c.riskByID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate risk id %s", types.ErrCatalogueUnavailable, r.ID)
		}
		c.riskByID[r.ID] = len(c.risks)
		c.risks = append(c.risks, r)
	}

	for _, t := range technologies {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("%w: alternative technology without id (%q)", types.ErrCatalogueUnavailable, t.ProductName)
		}
		if _, dup := c.techByID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate alternative technology id %s", types.ErrCatalogueUnavailable, t.ID)
		}
		c.techByID[t.ID] = len(c.technologies)
		c.technologies = append(c.technologies, t)
	}

	for _, m := range mappings {
		m.ResourceTypeID = strings.TrimSpace(m.ResourceTypeID)
		m.ExitStrategyID = strings.TrimSpace(m.ExitStrategyID)
		m.AlternativeTechnologyID = strings.TrimSpace(m.AlternativeTechnologyID)
		if m.ResourceTypeID == "" || m.ExitStrategyID == "" || m.AlternativeTechnologyID == "" {
			return nil, fmt.Errorf("%w: alternative mapping with empty key %+v", types.ErrCatalogueUnavailable, m)
		}
		c.mappings = append(c.mappings, m)
	}

	return c, nil
}

// NormalizeCode is the key form used for provider resource codes.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ResourceTypeByCode resolves a provider code. Inactive rows are returned
// too; callers decide whether to track them.
func (c *Catalogue) ResourceTypeByCode(provider Provider, code string) (ResourceTypeDef, bool) {
	idx, ok := c.typeByCode[codeKey{provider: provider, code: NormalizeCode(code)}]
	if !ok {
		return ResourceTypeDef{}, false
	}
	return c.resourceTypes[idx], true
}

func (c *Catalogue) ResourceType(id string) (ResourceTypeDef, bool) {
	idx, ok := c.typeByID[id]
	if !ok {
		return ResourceTypeDef{}, false
	}
	return c.resourceTypes[idx], true
}

func (c *Catalogue) Risk(id string) (RiskDef, bool) {
	idx, ok := c.riskByID[id]
	if !ok {
		return RiskDef{}, false
	}
	return c.risks[idx], true
}

func (c *Catalogue) Technology(id string) (AlternativeTechnology, bool) {
	idx, ok := c.techByID[id]
	if !ok {
		return AlternativeTechnology{}, false
	}
	return c.technologies[idx], true
}

// MappingsFor returns the mappings of a resource type for a strategy in
// catalogue order.
func (c *Catalogue) MappingsFor(resourceTypeID, exitStrategyID string) []AlternativeMapping {
	var out []AlternativeMapping
	for _, m := range c.mappings {
		if m.ResourceTypeID == resourceTypeID && m.ExitStrategyID == exitStrategyID {
			out = append(out, m)
		}
	}
	return out
}

// ActiveCodes lists the codes of the active resource types of a provider.
// Fetchers use it to decide which APIs to query.
func (c *Catalogue) ActiveCodes(provider Provider) []string {
	var codes []string
	for _, rt := range c.resourceTypes {
		if rt.Provider == provider && rt.Active {
			codes = append(codes, rt.Code)
		}
	}
	return codes
}

func (c *Catalogue) ResourceTypes() []ResourceTypeDef {
	return append([]ResourceTypeDef(nil), c.resourceTypes...)
}

func (c *Catalogue) Risks() []RiskDef {
	return append([]RiskDef(nil), c.risks...)
}

func (c *Catalogue) Technologies() []AlternativeTechnology {
	return append([]AlternativeTechnology(nil), c.technologies...)
}

func (c *Catalogue) Mappings() []AlternativeMapping {
	return append([]AlternativeMapping(nil), c.mappings...)
}
