// Package shared provides common utility functions used across multiple
// packages in the appstream-builder codebase.
package shared

import (
	"fmt"
	"path"
	"strings"
)

// NormalizeArchivePath turns a member name from a package data archive
// into a clean relative path: "./usr/share/x" and "/usr/share/x" both
// become "usr/share/x".
func NormalizeArchivePath(value string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(value), "/")
	trimmed = strings.TrimPrefix(trimmed, "./")
	if trimmed == "" || trimmed == "." {
		return ""
	}
	return path.Clean(trimmed)
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
