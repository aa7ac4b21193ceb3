package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// NormalizeID converts an identifier read from SQL, JSON or YAML into its
// canonical string form. Integral floats lose their fraction so that 7 and
// 7.0 compare equal.
func NormalizeID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: nil identifier", types.ErrMalformedInput)
	case string:
		s := strings.TrimSpace(id)
		if s == "" {
			return "", fmt.Errorf("%w: empty identifier", types.ErrMalformedInput)
		}
		return s, nil
	case []byte:
		return NormalizeID(string(id))
	case json.Number:
		if !strings.ContainsAny(id.String(), ".eE") {
			return NormalizeID(id.String())
		}
		f, err := id.Float64()
		if err != nil {
			return "", fmt.Errorf("%w: invalid numeric identifier %q", types.ErrMalformedInput, id.String())
		}
		return NormalizeID(f)
	case int:
		return strconv.Itoa(id), nil
	case int32:
		return strconv.FormatInt(int64(id), 10), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case uint:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint64:
		return strconv.FormatUint(id, 10), nil
	case float32:
		return NormalizeID(float64(id))
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) || id != math.Trunc(id) {
			return "", fmt.Errorf("%w: non-integral identifier %v", types.ErrMalformedInput, id)
		}
		return strconv.FormatInt(int64(id), 10), nil
	default:
		return "", fmt.Errorf("%w: unsupported identifier type %T", types.ErrMalformedInput, v)
	}
}

// ParseFlag reads the boolean columns of the dataset, which store "t"/"f"
// in SQLite and real booleans in the flat-file bundles.
func ParseFlag(v any) (bool, error) {
	switch f := v.(type) {
	case nil:
		return false, nil
	case bool:
		return f, nil
	case int64:
		return f != 0, nil
	case int:
		return f != 0, nil
	case float64:
		return f != 0, nil
	case []byte:
		return ParseFlag(string(f))
	case json.Number:
		return ParseFlag(f.String())
	case string:
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "t", "true", "1", "y", "yes":
			return true, nil
		case "", "f", "false", "0", "n", "no":
			return false, nil
		}
		return false, fmt.Errorf("%w: invalid flag %q", types.ErrMalformedInput, f)
	default:
		return false, fmt.Errorf("%w: unsupported flag type %T", types.ErrMalformedInput, v)
	}
}
