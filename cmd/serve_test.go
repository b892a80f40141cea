package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/scribe/internal/content"
)

func TestStartupIndexSurvivesBuildFailure(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "content")
	if err := os.MkdirAll(filepath.Join(root, "platform"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "platform", "page.md"), []byte("# Page\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc, err := content.NewService(content.Options{Root: root, CacheSweep: -1})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	// Make the build fail after the service passed its root check.
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("remove root: %v", err)
	}

	// Must log and return, not abort; the service keeps serving with an
	// empty index.
	startupIndex(svc)

	found, err := svc.Search("page", "", 0)
	if err != nil {
		t.Fatalf("Search after failed build: %v", err)
	}
	if found.Count != 0 {
		t.Fatalf("expected empty index, got %+v", found)
	}
}
