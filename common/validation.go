package common

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// RowError is one recoverable failure during generation, reported against
// the 1-based source row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// unsafeChars are the characters that break paths on common filesystems.
var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename replaces filesystem-unsafe characters with underscores.
// The result is stable under repeated application.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// AllowedFile reports whether the uploaded filename carries one of the
// accepted extensions. The check is case-insensitive.
func AllowedFile(filename string, allowed map[string]bool) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowed[ext]
}

// FormatRowErrors joins up to max row errors into one human-readable line.
func FormatRowErrors(errs []RowError, max int) string {
	if len(errs) > max {
		errs = errs[:max]
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
