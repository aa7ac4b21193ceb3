package catalogue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/ubuntu/decorate"
	"gopkg.in/yaml.v3"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// LoadFile reads a catalogue bundle from a JSON, YAML or TOML file. The
// bundle holds one list per dataset table, keyed by table name.
func LoadFile(path string) (cat *entity.Catalogue, err error) {
	defer decorate.OnError(&err, "loading catalogue bundle %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}

	doc, err := decodeBundle(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}

	return parseBundle(doc)
}

func decodeBundle(ext string, data []byte) (map[string]any, error) {
	doc := map[string]any{}

	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
		doc = tree.ToMap()
	default:
		return nil, fmt.Errorf("unsupported catalogue format: %s", ext)
	}

	return doc, nil
}

// parseBundle checks that every table is present and converts the generic
// document into raw rows.
func parseBundle(doc map[string]any) (*entity.Catalogue, error) {
	var missing []string
	for _, table := range requiredTables {
		if _, ok := doc[table]; !ok {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing tables: %s", types.ErrCatalogueUnavailable, strings.Join(missing, ", "))
	}

	// The three decoders produce different scalar types; routing through
	// JSON with UseNumber gives the row converters a single shape to handle.
	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}

	var tables rawTables
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(&tables); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
	}

	return tables.build()
}
