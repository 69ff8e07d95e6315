package errors

import (
	"strings"
	"unicode"
)

// maxSegmentLength bounds a single module path segment.
const maxSegmentLength = 256

// ValidateSegment validates one module path segment before it is appended
// to a tag. Segments are the pieces between separators, so they may not
// contain either the canonical separator "/" or the wire separator ";".
//
// The validation rules:
//   - No empty segments
//   - No "/" or ";"
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateSegment(segment string) error {
	if segment == "" {
		return New(ErrCodeInvalidTag, "path segment cannot be empty")
	}

	if len(segment) > maxSegmentLength {
		return New(ErrCodeInvalidTag, "path segment too long (max %d characters)", maxSegmentLength)
	}

	if strings.ContainsAny(segment, "/;") {
		return New(ErrCodeInvalidTag, "path segment %q contains a separator", segment)
	}

	for _, r := range segment {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "path segment contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
