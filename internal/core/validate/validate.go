// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// APIKey validates an API key is non-empty and free of whitespace.
func APIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("api key is required")
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return fmt.Errorf("api key must not contain whitespace")
	}
	return nil
}

// ProjectID validates a project id is a non-empty path-safe token.
func ProjectID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("project id is required")
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return fmt.Errorf("project id may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// APIKeyField returns a criterio validator for API keys.
func APIKeyField(field, key string) error {
	return criterio.Run(field, key, APIKey)
}

// ProjectIDField returns a criterio validator for project ids.
func ProjectIDField(field, id string) error {
	return criterio.Run(field, id, ProjectID)
}
