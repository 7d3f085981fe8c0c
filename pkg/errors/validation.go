package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// recipeIDRegex matches recipe identifiers: lowercase slugs such as "chocolate-chip-cookies".
var recipeIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateRecipeID validates a recipe identifier for safety and correctness.
// IDs double as file basenames in directory stores and as document keys in
// MongoDB, so the rules reject anything that could escape a directory.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Lowercase letters, digits, '.', '_' and '-' only
//   - No path traversal sequences (..)
func ValidateRecipeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "recipe id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "recipe id too long (max 128 characters)")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "recipe id cannot contain path traversal sequences (..)")
	}

	if !recipeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid recipe id: %q", id)
	}

	return nil
}

// ValidatePath validates a file path supplied by a user for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURI validates a connection URI (Redis, MongoDB) by scheme.
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URI must use one of the schemes: %s", strings.Join(schemes, ", "))
}
