// Package validate checks extracted values against field rules. It is pure
// and deterministic: no model calls, no hidden state, identical results for
// identical inputs.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

var (
	emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w{2,}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

const addressMinLength = 10

// Check validates value against the field's rules. The required check
// short-circuits; every other violated rule accumulates into Errors.
func Check(value any, f schema.Field) types.ValidationResult {
	if isEmpty(value) {
		if f.Required {
			return types.ValidationResult{Valid: false, Errors: []string{"This field is required"}}
		}
		return types.ValidationResult{Valid: true}
	}

	var errs []string
	switch f.Type {
	case schema.TypeEmail:
		errs = checkEmail(value)
	case schema.TypePhone:
		errs = checkPhone(value)
	case schema.TypeDate:
		errs = checkDate(value)
	case schema.TypeNumber:
		errs = checkNumber(value, f.Validation)
	case schema.TypeSelect:
		errs = checkSelect(value, f.Options)
	case schema.TypeBoolean:
		errs = checkBoolean(value)
	case schema.TypeAddress:
		errs = checkText(value, withDefaultMinLength(f.Validation, addressMinLength))
	default:
		errs = checkText(value, f.Validation)
	}

	return types.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func checkEmail(value any) []string {
	s, ok := value.(string)
	if !ok || !emailPattern.MatchString(s) {
		return []string{"Please provide a valid email address"}
	}
	return nil
}

func checkPhone(value any) []string {
	s := fmt.Sprintf("%v", value)
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) < 10 {
		return []string{"Please provide a 10-digit phone number"}
	}
	return nil
}

func checkDate(value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"Please provide a valid date"}
	}
	if _, ok := ParseDate(s); !ok {
		return []string{"Please provide a valid date"}
	}
	return nil
}

func checkNumber(value any, rules *schema.Rules) []string {
	num, ok := toNumber(value)
	if !ok {
		return []string{"Please provide a number"}
	}
	var errs []string
	if rules != nil {
		if rules.Min != nil && num < *rules.Min {
			errs = append(errs, fmt.Sprintf("Value must be at least %g", *rules.Min))
		}
		if rules.Max != nil && num > *rules.Max {
			errs = append(errs, fmt.Sprintf("Value must be at most %g", *rules.Max))
		}
	}
	return errs
}

func checkSelect(value any, options []string) []string {
	s, ok := value.(string)
	if ok {
		for _, opt := range options {
			if s == opt {
				return nil
			}
		}
	}
	return []string{fmt.Sprintf("Please select one of: %s", strings.Join(options, ", "))}
}

func checkBoolean(value any) []string {
	if _, ok := value.(bool); !ok {
		return []string{"Must be yes or no"}
	}
	return nil
}

func checkText(value any, rules *schema.Rules) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"Please provide text"}
	}
	var errs []string
	if rules != nil {
		if rules.MinLength != nil && len(s) < *rules.MinLength {
			errs = append(errs, fmt.Sprintf("Text must be at least %d characters", *rules.MinLength))
		}
		if rules.MaxLength != nil && len(s) > *rules.MaxLength {
			errs = append(errs, fmt.Sprintf("Text must be at most %d characters", *rules.MaxLength))
		}
	}
	return errs
}

func withDefaultMinLength(rules *schema.Rules, min int) *schema.Rules {
	if rules == nil {
		return &schema.Rules{MinLength: &min}
	}
	if rules.MinLength == nil {
		copied := *rules
		copied.MinLength = &min
		return &copied
	}
	return rules
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
