package schema

import (
	"strconv"
	"strings"

	"github.com/intakeflow/intakeflow/types"
)

// Visible reports whether a field currently applies given the values
// collected so far. A field with no conditional is always visible; a
// conditional whose dependency has not been collected yet cannot be
// evaluated and is not visible. An unrecognized operator is fail-open.
func Visible(f Field, collected map[string]*types.CollectedValue) bool {
	cond := f.Conditional
	if cond == nil {
		return true
	}
	dep, ok := collected[cond.DependsOn]
	if !ok {
		return false
	}
	switch cond.Condition {
	case "equals":
		return equalValues(dep.Value, cond.Value)
	case "not_equals":
		return !equalValues(dep.Value, cond.Value)
	case "contains":
		return strings.Contains(asString(dep.Value), asString(cond.Value))
	case "greater_than":
		a, aok := asNumber(dep.Value)
		b, bok := asNumber(cond.Value)
		return aok && bok && a > b
	case "less_than":
		a, aok := asNumber(dep.Value)
		b, bok := asNumber(cond.Value)
		return aok && bok && a < b
	case "in":
		return valueIn(dep.Value, cond.Value)
	default:
		return true
	}
}

func equalValues(a, b any) bool {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
	}
	return asString(a) == asString(b)
}

func valueIn(v, set any) bool {
	switch s := set.(type) {
	case []any:
		for _, item := range s {
			if equalValues(v, item) {
				return true
			}
		}
	case []string:
		for _, item := range s {
			if equalValues(v, item) {
				return true
			}
		}
	}
	return false
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

func asNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
