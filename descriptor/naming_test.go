package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ID":          "id",
		"UUID":        "uuid",
		"UserID":      "user_id",
		"FirstName":   "first_name",
		"HTTPServer":  "http_server",
		"OAuth2Token": "o_auth2_token",
		"already_ok":  "already_ok",
		"X":           "x",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, toSnakeCase(in), "input %q", in)
	}
}

func TestToCamelCase(t *testing.T) {
	tests := map[string]string{
		"FirstName":  "firstName",
		"user_id":    "userId",
		"ID":         "id",
		"HTTPServer": "httpServer",
	}
	for in, want := range tests {
		assert.Equal(t, want, toCamelCase(in), "input %q", in)
	}
}

func TestToPascalCase(t *testing.T) {
	tests := map[string]string{
		"first_name": "FirstName",
		"userId":     "UserId",
		"x":          "X",
	}
	for in, want := range tests {
		assert.Equal(t, want, toPascalCase(in), "input %q", in)
	}
}

func TestNamingStrategies(t *testing.T) {
	assert.Equal(t, "first_name", NewNamingStrategy(SnakeCase).MemberName("FirstName"))
	assert.Equal(t, "firstName", NewNamingStrategy(CamelCase).MemberName("FirstName"))
	assert.Equal(t, "FirstName", NewNamingStrategy(PascalCase).MemberName("first_name"))
	assert.Equal(t, "first_name", DefaultNamingStrategy().MemberName("FirstName"))
}

func TestPluralize(t *testing.T) {
	tests := map[string]string{
		"Point":  "Points",
		"Entry":  "Entries",
		"person": "people",
		"":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, pluralize(in), "input %q", in)
	}
}
