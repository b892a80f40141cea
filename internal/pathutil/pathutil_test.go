package pathutil

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizePathHandlesWindowsSeparators(t *testing.T) {
	got := NormalizePath(`docs\guides\intro.md`)
	want := filepath.Join("docs", "guides", "intro.md")
	if got != want {
		t.Fatalf("NormalizePath returned %q, want %q", got, want)
	}
}

func TestRootRelativeUsesForwardSlashes(t *testing.T) {
	root := filepath.Join("srv", "content")
	target := filepath.Join("srv", "content", "quantom", "intro.md")

	rel, err := RootRelative(root, target)
	if err != nil {
		t.Fatalf("RootRelative returned error: %v", err)
	}
	if rel != "quantom/intro.md" {
		t.Fatalf("expected forward-slash relative path, got %q", rel)
	}
}

func TestResolveWithinRejectsTraversal(t *testing.T) {
	root := t.TempDir()

	cases := []string{
		"..",
		"../etc/passwd",
		"../../etc/passwd",
		"docs/../../escape.md",
		"%2e%2e/secrets",
		"%2e%2e%2f%2e%2e%2fetc/passwd",
		"%252e%252e/secrets",
		"~",
		"~/notes.md",
		"docs/~root",
		"/etc/passwd",
		`\\server\share`,
	}

	for _, requested := range cases {
		if _, err := ResolveWithin(root, requested); !errors.Is(err, ErrTraversal) {
			t.Fatalf("ResolveWithin(%q) = %v, want ErrTraversal", requested, err)
		}
	}
}

func TestResolveWithinAcceptedPathsStayUnderRoot(t *testing.T) {
	root := t.TempDir()
	base, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("abs root: %v", err)
	}

	cases := []string{
		"",
		".",
		"quantom",
		"quantom/01-Getting-Started/Quick-Start.md",
		"a/b/c/d/e/f.md",
		"dir with spaces/file.md",
		"quantom/./intro.md",
	}

	for _, requested := range cases {
		resolved, err := ResolveWithin(root, requested)
		if err != nil {
			t.Fatalf("ResolveWithin(%q) returned error: %v", requested, err)
		}
		if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
			t.Fatalf("ResolveWithin(%q) escaped root: %q", requested, resolved)
		}
	}
}

func TestResolveWithinDecodesEncodedSegments(t *testing.T) {
	root := t.TempDir()

	resolved, err := ResolveWithin(root, "docs/getting%20started.md")
	if err != nil {
		t.Fatalf("ResolveWithin returned error: %v", err)
	}
	if filepath.Base(resolved) != "getting started.md" {
		t.Fatalf("expected decoded segment, got %q", resolved)
	}
}
