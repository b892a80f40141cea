package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/scribe/internal/vaultfs"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBuildOrdersAndClassifiesNodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-Getting-Started/Quick-Start.md", "# Quick Start")
	writeFile(t, dir, "01-Getting-Started/02-Install.md", "# Install")
	writeFile(t, dir, "01-Getting-Started/index.md", "# Overview")
	writeFile(t, dir, "Appendix/Glossary.mdx", "# Glossary")
	writeFile(t, dir, "02-Guides/10-Deploy/Rollback.md", "# Rollback")
	writeFile(t, dir, ".hidden/secret.md", "# hidden")
	writeFile(t, dir, "notes.txt", "not content")

	nodes, err := NewBuilder(vaultfs.OS{}, 0).Build(dir, "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(nodes) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d: %+v", len(nodes), nodes)
	}

	// Prefixed categories sort by their ordinal, unprefixed ones last.
	if nodes[0].ID != "01-Getting-Started" || nodes[1].ID != "02-Guides" || nodes[2].ID != "Appendix" {
		t.Fatalf("unexpected top-level order: %s, %s, %s", nodes[0].ID, nodes[1].ID, nodes[2].ID)
	}

	gs := nodes[0]
	if gs.Kind != KindCategory || gs.Name != "Getting Started" || gs.Slug != "getting-started" || gs.Order != 1 {
		t.Fatalf("unexpected category node: %+v", gs)
	}
	if !gs.HasIndex {
		t.Fatalf("index.md should set HasIndex on its category")
	}
	if !gs.HasFiles || gs.HasCategories {
		t.Fatalf("expected file children only, got %+v", gs)
	}

	// index.md must not appear as a child.
	if len(gs.Children) != 2 {
		t.Fatalf("expected 2 children, got %+v", gs.Children)
	}
	if gs.Children[0].ID != "02-Install.md" || gs.Children[1].ID != "Quick-Start.md" {
		t.Fatalf("unexpected child order: %+v", gs.Children)
	}

	qs := gs.Children[1]
	if qs.Kind != KindFile || qs.Slug != "quick-start" || qs.FileType != "md" {
		t.Fatalf("unexpected file node: %+v", qs)
	}
	if qs.Path != "01-Getting-Started/Quick-Start.md" {
		t.Fatalf("unexpected path: %q", qs.Path)
	}

	guides := nodes[1]
	if !guides.HasCategories || guides.HasFiles {
		t.Fatalf("expected category children only, got %+v", guides)
	}

	if nodes[2].Children[0].FileType != "mdx" {
		t.Fatalf("expected mdx file type, got %+v", nodes[2].Children[0])
	}
}

func TestBuildTieBreaksOnName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-Beta.md", "b")
	writeFile(t, dir, "01-Alpha.md", "a")
	writeFile(t, dir, "Zeta.md", "z")
	writeFile(t, dir, "Eta.md", "e")

	nodes, err := NewBuilder(vaultfs.OS{}, 0).Build(dir, "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	got := make([]string, 0, len(nodes))
	for _, n := range nodes {
		got = append(got, n.ID)
	}
	want := []string{"01-Alpha.md", "01-Beta.md", "Eta.md", "Zeta.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}
}

func TestBuildMissingDirFails(t *testing.T) {
	if _, err := NewBuilder(vaultfs.OS{}, 0).Build(filepath.Join(t.TempDir(), "absent"), ""); err == nil {
		t.Fatalf("expected error for missing top-level directory")
	}
}

func TestFilesFlattensLeaves(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-A/one.md", "1")
	writeFile(t, dir, "01-A/02-B/two.md", "2")
	writeFile(t, dir, "three.md", "3")

	nodes, err := NewBuilder(vaultfs.OS{}, 0).Build(dir, "")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	files := Files(nodes)
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %+v", files)
	}
	for _, f := range files {
		if f.Kind != KindFile {
			t.Fatalf("non-file node in Files output: %+v", f)
		}
	}
}
