package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:             field,
			Message:           "field is required",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLen validates that value has at least min characters (runes).
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLen validates that value has at most max characters (runes).
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// Equal validates that value equals other. The error is reported on field.
func Equal(field, value, other string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{
			Field:             field,
			Message:           "values do not match",
			TranslationKey:    "validation.equal",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// ValidEmail validates a bare address (no display name) with a dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return isEmail(value) },
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// ValidOTP validates a numeric one-time code of exactly length digits.
func ValidOTP(field, value string, length int) Rule {
	return Rule{
		Check: func() bool {
			if length <= 0 || len(value) != length {
				return false
			}
			for i := 0; i < len(value); i++ {
				if value[i] < '0' || value[i] > '9' {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be a %d-digit code", length),
			TranslationKey:    "validation.otp_code",
			TranslationValues: map[string]any{"field": field, "length": length},
		},
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) != value || value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}

	local, domain, ok := strings.Cut(value, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}
