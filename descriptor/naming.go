package descriptor

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy defines how Go member names are converted to wire names.
// Wire names are what codecs built on top of the descriptors embed in their
// output; the descriptor core only records them.
type NamingStrategy interface {
	// MemberName converts a Go field name to a wire name.
	// Must return consistent results for the same input.
	MemberName(fieldName string) string
}

// NamingConvention selects one of the built-in wire naming conventions.
type NamingConvention int

const (
	SnakeCase  NamingConvention = iota // user_id, first_name, created_at
	CamelCase                          // userId, firstName, createdAt
	PascalCase                         // UserId, FirstName, CreatedAt
)

type namingStrategy struct {
	convention NamingConvention
}

// NewNamingStrategy creates a strategy for the given convention.
func NewNamingStrategy(convention NamingConvention) NamingStrategy {
	return &namingStrategy{convention: convention}
}

// DefaultNamingStrategy returns the snake_case strategy, the most common
// convention for wire formats.
func DefaultNamingStrategy() NamingStrategy {
	return NewNamingStrategy(SnakeCase)
}

// MemberName converts field names according to the configured convention.
func (s *namingStrategy) MemberName(fieldName string) string {
	switch s.convention {
	case CamelCase:
		return toCamelCase(fieldName)
	case PascalCase:
		return toPascalCase(fieldName)
	default:
		return toSnakeCase(fieldName)
	}
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms, digits, and mixed-case runs.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// Common acronym fast paths.
	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "API":
		return "api"
	case "JSON":
		return "json"
	case "XML":
		return "xml"
	case "HTML":
		return "html"
	}

	// Already snake_case: lowercase and return.
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// Break before an uppercase rune when the previous rune is
			// lowercase/digit (aB -> a_b) or when an uppercase run ends
			// (ABc -> a_bc).
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteByte('_')
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// toCamelCase converts any naming convention to camelCase.
func toCamelCase(name string) string {
	if name == "" {
		return ""
	}

	snake := toSnakeCase(name)
	if !strings.Contains(snake, "_") {
		return strings.ToLower(snake[:1]) + snake[1:]
	}

	parts := strings.Split(snake, "_")
	var result strings.Builder
	result.Grow(len(name))

	result.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(part[1:])
	}

	return result.String()
}

// toPascalCase converts any naming convention to PascalCase.
func toPascalCase(name string) string {
	if name == "" {
		return ""
	}

	camel := toCamelCase(name)
	return strings.ToUpper(camel[:1]) + camel[1:]
}

// pluralize converts a singular type name to its plural form, preserving
// the case pattern of the input.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	plural := pluralizeClient.Pluralize(name, 2, false)
	return preserveCase(name, plural)
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase preserves the leading-case pattern of the original string in
// the result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + result[1:]
	}
	return result
}
