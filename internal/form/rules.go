package form

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule validates one field value against current registry state. A rule
// returns "" when the value passes, or the user-facing message otherwise.
type Rule interface {
	Check(value any, reg *Registry) string
}

// RuleFunc adapts a function to the Rule interface. Predicate rules over
// full registry state (uniqueness, conditional-required) are written as
// RuleFuncs.
type RuleFunc func(value any, reg *Registry) string

// Check implements Rule.
func (f RuleFunc) Check(value any, reg *Registry) string { return f(value, reg) }

var validate = validator.New(validator.WithRequiredStructEnabled())

// String coerces a field value to its string form. Numbers submitted by
// the form arrive as float64 after JSON decoding.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Bool normalizes checkbox values. Controls backed by checkbox groups can
// yield an array-of-one instead of a boolean; anything non-empty counts
// as ticked, matching the form's setValueAs normalization.
func Bool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "on"
	case float64:
		return v == 1
	case int:
		return v == 1
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return false
	}
}

// Number coerces a field value to float64, zero when absent or malformed.
func Number(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Required rejects empty values.
func Required(message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		switch v := value.(type) {
		case bool:
			if !v {
				return message
			}
		case []any:
			if len(v) == 0 {
				return message
			}
		default:
			if strings.TrimSpace(String(value)) == "" {
				return message
			}
		}
		return ""
	})
}

// Pattern rejects non-empty values that do not match re. Empty values
// pass; combine with Required when the field is mandatory.
func Pattern(re *regexp.Regexp, message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		s := String(value)
		if s == "" {
			return ""
		}
		if !re.MatchString(s) {
			return message
		}
		return ""
	})
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email applies the standard local@domain.tld shape, case-insensitively,
// backed by the validator library's semantic check.
func Email(message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		s := String(value)
		if s == "" {
			return ""
		}
		if !emailPattern.MatchString(s) {
			return message
		}
		if err := validate.Var(s, "email"); err != nil {
			return message
		}
		return ""
	})
}

var indianMobilePattern = regexp.MustCompile(`^\+91\d{10}$`)

// IndianMobile requires the +91 prefix with exactly ten digits and,
// independently, general phone validity (E.164).
func IndianMobile(message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		s := String(value)
		if s == "" {
			return ""
		}
		if !indianMobilePattern.MatchString(s) {
			return message
		}
		if err := validate.Var(s, "e164"); err != nil {
			return message
		}
		return ""
	})
}

// Phone requires general phone validity without pinning the country.
func Phone(message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		s := String(value)
		if s == "" {
			return ""
		}
		if err := validate.Var(s, "e164"); err != nil {
			return message
		}
		return ""
	})
}

// DistinctFrom rejects a non-empty value equal to the current value of
// other. Attached on both sides of each pair so whichever field is edited
// last carries the error.
func DistinctFrom(other, message string) Rule {
	return RuleFunc(func(value any, reg *Registry) string {
		s := String(value)
		o := String(reg.Get(other))
		if s == "" || o == "" {
			return ""
		}
		if s == o {
			return message
		}
		return ""
	})
}

// DistinctFromFold is DistinctFrom with case-insensitive comparison, used
// for the parent/student email pair.
func DistinctFromFold(other, message string) Rule {
	return RuleFunc(func(value any, reg *Registry) string {
		s := String(value)
		o := String(reg.Get(other))
		if s == "" || o == "" {
			return ""
		}
		if strings.EqualFold(s, o) {
			return message
		}
		return ""
	})
}

// Matches rejects a value that differs from the current value of other.
// Confirmation fields compare exactly, including case.
func Matches(other, message string) Rule {
	return RuleFunc(func(value any, reg *Registry) string {
		if String(value) != String(reg.Get(other)) {
			return message
		}
		return ""
	})
}

// Min rejects numeric values below the bound.
func Min(bound float64, message string) Rule {
	return RuleFunc(func(value any, _ *Registry) string {
		if value == nil || strings.TrimSpace(String(value)) == "" {
			return ""
		}
		if Number(value) < bound {
			return message
		}
		return ""
	})
}

// RequiredWhen makes a field mandatory only while cond holds over the
// registry, for course-dependent field groups.
func RequiredWhen(cond func(reg *Registry) bool, message string) Rule {
	return RuleFunc(func(value any, reg *Registry) string {
		if !cond(reg) {
			return ""
		}
		if strings.TrimSpace(String(value)) == "" {
			return message
		}
		return ""
	})
}
