// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

// MaxFileSize is the upload ceiling enforced at the API boundary (10 MB).
const MaxFileSize = 10 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// IsAllowedFileSize checks the upload size ceiling.
func IsAllowedFileSize(size int64) bool {
	return size > 0 && size <= MaxFileSize
}

// IsAllowedMimeType checks the MIME whitelist for document uploads.
func IsAllowedMimeType(mimeType string) bool {
	return allowedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
