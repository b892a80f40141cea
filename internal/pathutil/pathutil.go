package pathutil

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrTraversal signals that a requested path attempted to escape the content
// root. Callers must surface this as a forbidden outcome, never as not-found.
var ErrTraversal = errors.New("path escapes content root")

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	// Replace Windows separators and collapse redundant separators/segments.
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// RootRelative returns the path to target relative to the provided content root.
// The returned path always uses forward slashes to simplify downstream processing
// and ensure platform agnosticism.
func RootRelative(root, target string) (string, error) {
	base := NormalizePath(root)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// ResolveWithin resolves requested against root and guarantees the result stays
// inside root. The requested path is URL-decoded twice before inspection so
// single- and double-encoded traversal sequences are rejected alongside literal
// ones. The function performs no existence check; it only validates shape.
func ResolveWithin(root, requested string) (string, error) {
	base, err := filepath.Abs(NormalizePath(root))
	if err != nil {
		return "", err
	}

	decoded := requested
	for i := 0; i < 2; i++ {
		next, err := url.PathUnescape(decoded)
		if err != nil {
			break
		}
		decoded = next
	}

	if hasTraversal(requested) || hasTraversal(decoded) {
		return "", ErrTraversal
	}

	joined := filepath.Clean(filepath.Join(base, filepath.FromSlash(decoded)))
	if joined != base && !strings.HasPrefix(joined, base+string(filepath.Separator)) {
		return "", ErrTraversal
	}

	return joined, nil
}

func hasTraversal(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "~") {
		return true
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return true
	}

	normalized := strings.ReplaceAll(p, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." || strings.HasPrefix(segment, "~") {
			return true
		}
	}
	return false
}
