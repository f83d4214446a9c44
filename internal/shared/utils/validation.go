package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload size limits (in bytes)
const (
	MaxDescriptorSize = 2 * 1024 * 1024   // 2MB - single service descriptor limit
	MaxDocumentSize   = 16 * 1024 * 1024  // 16MB - requests/solutions document limit
	MaxUploadSize     = 500 * 1024 * 1024 // 500MB - whole multipart dataset upload
)

// String length limits
const (
	MaxIDLength        = 128
	MaxNameLength      = 256
	MaxParamNameLength = 128
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ParamPattern allows alphanumeric, hyphens, underscores, and dots
	// (dataset parameter names use the pNNaNN and dotted forms)
	ParamPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateParamName validates a parameter name
func ValidateParamName(name, fieldName string, required bool) error {
	if err := ValidateString(name, fieldName, 1, MaxParamNameLength, required); err != nil {
		return err
	}

	if name != "" && !ParamPattern.MatchString(name) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}
