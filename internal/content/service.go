// Package content composes the sandbox, slug codec, tree builder, render
// cache, and search index into the operations the transport exposes.
package content

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Paintersrp/scribe/internal/cache"
	"github.com/Paintersrp/scribe/internal/pathutil"
	"github.com/Paintersrp/scribe/internal/render"
	"github.com/Paintersrp/scribe/internal/search"
	"github.com/Paintersrp/scribe/internal/slug"
	"github.com/Paintersrp/scribe/internal/tree"
	"github.com/Paintersrp/scribe/internal/vaultfs"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Root       string
	FS         vaultfs.FS
	CacheTTL   time.Duration
	CacheSweep time.Duration
	MaxDepth   int
	Search     search.Config
}

// Service owns the per-process content state: the render cache and the
// search index. Construct once at startup and Close on shutdown; replicas
// each hold their own copy with no cross-replica invalidation.
type Service struct {
	root     string
	fsys     vaultfs.FS
	trees    *tree.Builder
	cache    *cache.RenderCache
	renderer *render.Renderer
	index    *search.Indexer

	now func() time.Time
}

// TreeResponse carries one product's navigation tree.
type TreeResponse struct {
	Tree      []tree.Node `json:"tree"`
	Timestamp time.Time   `json:"timestamp"`
}

// ContentResponse carries one resolved, rendered content file.
type ContentResponse struct {
	HTML         string           `json:"html"`
	Raw          string           `json:"rawContent"`
	FileType     string           `json:"fileType"`
	Outline      []render.Heading `json:"outline,omitempty"`
	Size         int64            `json:"size"`
	LastModified time.Time        `json:"lastModified"`
}

// SaveResponse reports a completed mutation.
type SaveResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

// SearchResponse carries ranked matches.
type SearchResponse struct {
	Results []search.Result `json:"results"`
	Count   int             `json:"count"`
}

// RebuildResponse reports a completed full index build.
type RebuildResponse struct {
	DocumentsIndexed int `json:"documentsIndexed"`
}

// Product identifies one top-level content area.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"urlSlug"`
}

// NewService constructs the service over the content root.
func NewService(opts Options) (*Service, error) {
	root, err := filepath.Abs(pathutil.NormalizePath(opts.Root))
	if err != nil {
		return nil, fmt.Errorf("content: resolve root: %w", err)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = vaultfs.OS{}
	}

	if _, err := fsys.Stat(root); err != nil {
		return nil, fmt.Errorf("content: root %s: %w", root, err)
	}

	return &Service{
		root:     root,
		fsys:     fsys,
		trees:    tree.NewBuilder(fsys, opts.MaxDepth),
		cache:    cache.New(opts.CacheTTL, opts.CacheSweep),
		renderer: render.NewRenderer(),
		index:    search.NewIndexer(root, fsys, opts.Search),
		now:      time.Now,
	}, nil
}

// Root returns the absolute content root the service is sandboxed to.
func (s *Service) Root() string {
	return s.root
}

// Close releases the cache sweeper and the search index.
func (s *Service) Close() error {
	s.cache.Close()
	return s.index.Close()
}

// ListProducts enumerates the top-level content areas.
func (s *Service) ListProducts() ([]Product, error) {
	entries, err := s.fsys.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("content: list products: %w", err)
	}

	products := make([]Product, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		products = append(products, Product{
			ID:   name,
			Name: slug.DisplayName(name),
			Slug: slug.Encode(name),
		})
	}
	return products, nil
}

// GetTree rebuilds and returns the ordered navigation tree for a product.
func (s *Service) GetTree(productID string) (*TreeResponse, error) {
	dir, err := s.productDir(productID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.trees.Build(dir, "")
	if err != nil {
		return nil, fmt.Errorf("content: walk %s: %w", productID, err)
	}
	if nodes == nil {
		nodes = []tree.Node{}
	}

	return &TreeResponse{Tree: nodes, Timestamp: s.now()}, nil
}

// GetContentByPath decodes each slash-delimited slug segment against the
// live directory contents, validates the accumulated path against the
// sandbox, and serves the render from cache or disk.
func (s *Service) GetContentByPath(productID, urlPath string) (*ContentResponse, error) {
	// Sandbox the raw request before slug decoding so a traversal attempt is
	// reported as forbidden rather than as a failed lookup.
	if _, err := pathutil.ResolveWithin(s.root, productID+"/"+urlPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, urlPath)
	}

	dir, err := s.productDir(productID)
	if err != nil {
		return nil, err
	}

	rel := productID
	for _, segment := range strings.Split(strings.Trim(urlPath, "/"), "/") {
		if segment == "" {
			continue
		}

		entries, err := s.fsys.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}

		name, ok := slug.Decode(vaultfs.Names(entries), segment)
		if !ok {
			return nil, fmt.Errorf("%w: no entry matches segment %q", ErrNotFound, segment)
		}

		dir = filepath.Join(dir, name)
		rel = rel + "/" + name
	}

	abs, err := pathutil.ResolveWithin(s.root, rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, rel)
	}

	info, err := s.fsys.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, not a content file", ErrValidation, rel)
	}

	if entry, ok := s.cache.Get(abs); ok {
		return entryResponse(entry), nil
	}

	raw, err := s.fsys.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", rel, err)
	}

	fileType := slug.FileType(abs)
	html, err := s.renderer.ForFile(rel, fileType, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRender, rel, err)
	}

	outline, err := s.renderer.Outline(raw)
	if err != nil {
		log.Printf("content: outline for %s: %v", rel, err)
		outline = nil
	}

	entry := cache.Entry{
		HTML:     html,
		Raw:      raw,
		FileType: fileType,
		Outline:  outline,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}
	s.cache.Put(abs, entry)

	return entryResponse(entry), nil
}

// SaveContent writes a content file, invalidates its render, and patches the
// search index. The write either fully applies or reports failure without
// touching the index.
func (s *Service) SaveContent(rel string, body []byte) (*SaveResponse, error) {
	abs, cleanRel, err := s.mutablePath(rel)
	if err != nil {
		return nil, err
	}

	parent := filepath.Dir(abs)
	entries, err := s.fsys.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("%w: parent of %s", ErrNotFound, cleanRel)
	}

	name := path.Base(cleanRel)
	if sibling, ok := slug.Collides(vaultfs.Names(entries), name); ok {
		return nil, fmt.Errorf("%w: %q resolves to the same slug as %q", ErrValidation, name, sibling)
	}

	if err := s.fsys.WriteFile(abs, body, 0o644); err != nil {
		return nil, fmt.Errorf("content: write %s: %w", cleanRel, err)
	}

	s.cache.Invalidate(abs)
	if err := s.index.UpdateOne(cleanRel); err != nil {
		return nil, fmt.Errorf("content: saved %s but index update failed: %w", cleanRel, err)
	}

	return &SaveResponse{Success: true, Path: cleanRel}, nil
}

// CreateContent writes a new content file, creating parent categories as
// needed. Fails if the file already exists or its slug collides with a
// sibling's.
func (s *Service) CreateContent(rel string, body []byte) (*SaveResponse, error) {
	abs, cleanRel, err := s.mutablePath(rel)
	if err != nil {
		return nil, err
	}

	if _, err := s.fsys.Stat(abs); err == nil {
		return nil, fmt.Errorf("%w: %s already exists", ErrValidation, cleanRel)
	}

	parent := filepath.Dir(abs)
	if entries, err := s.fsys.ReadDir(parent); err == nil {
		if sibling, ok := slug.Collides(vaultfs.Names(entries), path.Base(cleanRel)); ok {
			return nil, fmt.Errorf("%w: %q resolves to the same slug as %q", ErrValidation, path.Base(cleanRel), sibling)
		}
	} else if err := s.fsys.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("content: create category for %s: %w", cleanRel, err)
	}

	if err := s.fsys.WriteFile(abs, body, 0o644); err != nil {
		return nil, fmt.Errorf("content: write %s: %w", cleanRel, err)
	}

	if err := s.index.UpdateOne(cleanRel); err != nil {
		return nil, fmt.Errorf("content: created %s but index update failed: %w", cleanRel, err)
	}

	return &SaveResponse{Success: true, Path: cleanRel}, nil
}

// DeleteContent removes a content file, its cached render, and its index
// document.
func (s *Service) DeleteContent(rel string) (*SaveResponse, error) {
	abs, cleanRel, err := s.mutablePath(rel)
	if err != nil {
		return nil, err
	}

	info, err := s.fsys.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cleanRel)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrValidation, cleanRel)
	}

	if err := s.fsys.Remove(abs); err != nil {
		return nil, fmt.Errorf("content: remove %s: %w", cleanRel, err)
	}

	s.cache.Invalidate(abs)
	if err := s.index.UpdateOne(cleanRel); err != nil {
		log.Printf("content: removing %s from index: %v", cleanRel, err)
	}

	return &SaveResponse{Success: true, Path: cleanRel}, nil
}

// Search runs a ranked fuzzy query, optionally scoped to one product.
func (s *Service) Search(query, product string, limit int) (*SearchResponse, error) {
	results, err := s.index.Search(query, product, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []search.Result{}
	}
	return &SearchResponse{Results: results, Count: len(results)}, nil
}

// RebuildIndex runs a full index build. Privileged: callers gate it behind
// the auth layer.
func (s *Service) RebuildIndex() (*RebuildResponse, error) {
	count, err := s.index.BuildFull()
	if err != nil {
		return nil, err
	}
	// A rebuild is requested after bulk content changes; drop every
	// memoized render along with the stale index.
	s.cache.InvalidateAll()
	return &RebuildResponse{DocumentsIndexed: count}, nil
}

// HandleExternalChange reacts to a filesystem event from the watcher:
// the cached render is dropped and the index document refreshed.
func (s *Service) HandleExternalChange(abs string) {
	rel, err := pathutil.RootRelative(s.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "../") {
		return
	}

	s.cache.Invalidate(pathutil.NormalizePath(abs))

	if slug.IsMarkdown(rel) && strings.Contains(rel, "/") {
		if err := s.index.UpdateOne(rel); err != nil {
			log.Printf("content: watcher update for %s: %v", rel, err)
		}
	}
}

func (s *Service) productDir(productID string) (string, error) {
	if strings.TrimSpace(productID) == "" {
		return "", fmt.Errorf("%w: empty product id", ErrValidation)
	}
	if strings.ContainsAny(productID, "/\\") {
		return "", fmt.Errorf("%w: product id must be a single path segment", ErrValidation)
	}

	dir, err := pathutil.ResolveWithin(s.root, productID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrForbidden, productID)
	}

	info, err := s.fsys.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	return dir, nil
}

// mutablePath validates and resolves a mutation target: a markdown file at
// least one category below a product.
func (s *Service) mutablePath(rel string) (abs, clean string, err error) {
	clean = strings.Trim(filepath.ToSlash(strings.TrimSpace(rel)), "/")
	if clean == "" {
		return "", "", fmt.Errorf("%w: empty path", ErrValidation)
	}
	if !slug.IsMarkdown(clean) {
		return "", "", fmt.Errorf("%w: %s is not a markdown file", ErrValidation, clean)
	}
	if !strings.Contains(clean, "/") {
		return "", "", fmt.Errorf("%w: %s is not inside a product", ErrValidation, clean)
	}

	abs, err = pathutil.ResolveWithin(s.root, clean)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrForbidden, rel)
	}
	return abs, clean, nil
}

func entryResponse(entry cache.Entry) *ContentResponse {
	return &ContentResponse{
		HTML:         entry.HTML,
		Raw:          string(entry.Raw),
		FileType:     entry.FileType,
		Outline:      entry.Outline,
		Size:         entry.Size,
		LastModified: entry.ModTime,
	}
}
