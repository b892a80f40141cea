// Package tree builds the ordered navigation tree for one product's content
// directory. The tree is rebuilt on every request so it always reflects the
// current state of the filesystem.
package tree

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"sort"

	"github.com/Paintersrp/scribe/internal/slug"
	"github.com/Paintersrp/scribe/internal/vaultfs"
)

// Kind discriminates the two node variants.
type Kind string

const (
	KindCategory Kind = "category"
	KindFile     Kind = "file"
)

// DefaultMaxDepth caps recursion on untrusted directory trees.
const DefaultMaxDepth = 32

// Node is one entry in the content tree. Path uses raw on-disk names joined
// with forward slashes, relative to the product root; Slug is the public
// identifier for the final segment.
type Node struct {
	Kind          Kind   `json:"kind"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"urlSlug"`
	Order         int    `json:"order"`
	Path          string `json:"path"`
	Children      []Node `json:"children,omitempty"`
	FileType      string `json:"fileType,omitempty"`
	HasIndex      bool   `json:"hasIndex,omitempty"`
	HasFiles      bool   `json:"hasFiles,omitempty"`
	HasCategories bool   `json:"hasCategories,omitempty"`
}

// Builder walks sandboxed content directories into ordered Node slices.
type Builder struct {
	fsys     vaultfs.FS
	maxDepth int
}

// NewBuilder constructs a Builder over the provided filesystem adapter.
// A maxDepth of zero falls back to DefaultMaxDepth.
func NewBuilder(fsys vaultfs.FS, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{fsys: fsys, maxDepth: maxDepth}
}

// Build walks dir into an ordered tree. rel is the slash-joined path of dir
// relative to the product root ("" for the root itself). A read failure on
// the top-level directory is returned; failures deeper in the tree are
// logged and yield empty child lists so one bad subtree cannot sink the
// whole build.
func (b *Builder) Build(dir, rel string) ([]Node, error) {
	nodes, _, err := b.build(dir, rel, 0)
	return nodes, err
}

func (b *Builder) build(dir, rel string, depth int) ([]Node, bool, error) {
	if depth > b.maxDepth {
		return nil, false, fmt.Errorf("tree: max depth %d exceeded at %s", b.maxDepth, dir)
	}

	entries, err := b.fsys.ReadDir(dir)
	if err != nil {
		return nil, false, err
	}

	var (
		nodes    []Node
		hasIndex bool
	)

	for _, entry := range entries {
		name := entry.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}

		childRel := path.Join(rel, name)
		order, _ := slug.SplitOrder(name)

		if entry.IsDir() {
			children, childIndex, err := b.build(filepath.Join(dir, name), childRel, depth+1)
			if err != nil {
				log.Printf("tree: skipping unreadable subtree %s: %v", childRel, err)
				children = nil
			}

			node := Node{
				Kind:     KindCategory,
				ID:       name,
				Name:     slug.DisplayName(name),
				Slug:     slug.Encode(name),
				Order:    order,
				Path:     childRel,
				Children: children,
				HasIndex: childIndex,
			}
			for _, child := range children {
				switch child.Kind {
				case KindFile:
					node.HasFiles = true
				case KindCategory:
					node.HasCategories = true
				}
			}
			nodes = append(nodes, node)
			continue
		}

		if !slug.IsMarkdown(name) {
			continue
		}
		if slug.IsIndex(name) {
			// Index files describe the category itself, not a listable page.
			hasIndex = true
			continue
		}

		nodes = append(nodes, Node{
			Kind:     KindFile,
			ID:       name,
			Name:     slug.DisplayName(name),
			Slug:     slug.Encode(name),
			Order:    order,
			Path:     childRel,
			FileType: slug.FileType(name),
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].Name < nodes[j].Name
	})

	return nodes, hasIndex, nil
}

// Files flattens a tree into its file nodes in display order.
func Files(nodes []Node) []Node {
	var out []Node
	for _, node := range nodes {
		switch node.Kind {
		case KindFile:
			out = append(out, node)
		case KindCategory:
			out = append(out, Files(node.Children)...)
		}
	}
	return out
}
