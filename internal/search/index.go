// Package search maintains the in-memory fuzzy index over all products and
// answers weighted ranked queries against it.
//
// The index lives only in this process: it is rebuilt at startup and patched
// after content mutations, and a restart simply loses it until the next
// build. Multiple replicas each hold their own independently-stale copy.
package search

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"

	"github.com/Paintersrp/scribe/internal/render"
	"github.com/Paintersrp/scribe/internal/slug"
	"github.com/Paintersrp/scribe/internal/tree"
	"github.com/Paintersrp/scribe/internal/vaultfs"
)

// Indexer walks the content root into Documents and owns the live bleve
// index. Searches read the index through an atomic pointer so a rebuild can
// swap it without blocking them.
type Indexer struct {
	root     string
	fsys     vaultfs.FS
	trees    *tree.Builder
	renderer *render.Renderer
	cfg      Config

	// rebuildMu serializes full rebuilds and single-document updates;
	// searches never take it.
	rebuildMu sync.Mutex

	// current holds the active index; nil until the first successful build.
	current atomic.Pointer[bleve.Index]

	// wg tracks in-flight searches so a swapped-out index is only closed
	// once they drain.
	wg sync.WaitGroup
}

// NewIndexer constructs an Indexer over the content root. No index exists
// until BuildFull succeeds; searches before that return no results.
func NewIndexer(root string, fsys vaultfs.FS, cfg Config) *Indexer {
	return &Indexer{
		root:     filepath.Clean(root),
		fsys:     fsys,
		trees:    tree.NewBuilder(fsys, 0),
		renderer: render.NewRenderer(),
		cfg:      cfg.withDefaults(),
	}
}

// BuildFull re-indexes every product under the content root and swaps the
// result in atomically. Unreadable files are skipped and counted per product;
// failing to enumerate the product directories at all fails the build.
func (ix *Indexer) BuildFull() (int, error) {
	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	entries, err := ix.fsys.ReadDir(ix.root)
	if err != nil {
		return 0, fmt.Errorf("search: enumerate products: %w", err)
	}

	var docs []Document
	products := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		products++

		productDocs, skipped := ix.collectProduct(name)
		if skipped > 0 {
			log.Printf("search: product %s indexed with %d unreadable files skipped", name, skipped)
		}
		docs = append(docs, productDocs...)
	}

	if err := ix.swap(docs); err != nil {
		return 0, err
	}

	log.Printf("search: indexed %d documents across %d products", len(docs), products)
	return len(docs), nil
}

// UpdateOne re-indexes the file at rel (slash-joined, relative to the content
// root, product first). Any existing document for the path is removed first;
// if the file no longer exists it simply stays absent. Holding rebuildMu
// keeps the update off an index that a concurrent BuildFull is retiring.
func (ix *Indexer) UpdateOne(rel string) error {
	rel = path.Clean(filepath.ToSlash(strings.TrimSpace(rel)))
	product, rest, ok := strings.Cut(rel, "/")
	if !ok || product == "" || rest == "" {
		return fmt.Errorf("search: update needs a product-qualified path, got %q", rel)
	}

	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	ptr := ix.current.Load()
	if ptr == nil {
		// No index has been built yet; the next full build will pick the
		// file up.
		return nil
	}
	idx := *ptr

	if err := idx.Delete(rel); err != nil {
		return fmt.Errorf("search: remove %s: %w", rel, err)
	}

	raw, err := ix.fsys.ReadFile(filepath.Join(ix.root, filepath.FromSlash(rel)))
	if err != nil {
		// Deleted or unreadable: removal above is the whole update.
		return nil
	}

	doc := ix.buildDocument(product, rest, raw)
	if err := idx.Index(rel, doc); err != nil {
		return fmt.Errorf("search: reindex %s: %w", rel, err)
	}
	return nil
}

// Search runs the weighted fuzzy query and returns up to limit ranked
// results. Empty or too-short queries return nothing; a product filter is
// applied after ranking against the full index.
func (ix *Indexer) Search(term, product string, limit int) ([]Result, error) {
	term = strings.TrimSpace(term)
	if term == "" || utf8.RuneCountInString(term) < ix.cfg.MinMatchLength {
		return nil, nil
	}
	if limit <= 0 {
		limit = ix.cfg.DefaultLimit
	}

	ix.wg.Add(1)
	defer ix.wg.Done()

	ptr := ix.current.Load()
	if ptr == nil {
		return nil, nil
	}
	idx := *ptr

	disjunction := bleve.NewDisjunctionQuery()
	for _, fb := range fieldBoosts {
		q := bleve.NewMatchQuery(term)
		q.SetField(fb.field)
		q.SetBoost(fb.boost)
		q.SetFuzziness(ix.cfg.Fuzziness)
		disjunction.AddQuery(q)
	}

	req := bleve.NewSearchRequest(disjunction)
	req.Size = ix.cfg.MaxCandidates
	req.Fields = []string{"*"}

	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: query failed: %w", err)
	}

	results := make([]Result, 0, limit)
	for _, hit := range res.Hits {
		doc := documentFromFields(hit.Fields)
		if product != "" && doc.Product != product {
			continue
		}
		results = append(results, Result{Document: doc, Score: hit.Score})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// DocCount reports the size of the live index.
func (ix *Indexer) DocCount() int {
	ptr := ix.current.Load()
	if ptr == nil {
		return 0
	}
	count, err := (*ptr).DocCount()
	if err != nil {
		return 0
	}
	return int(count)
}

// Close tears down the live index after in-flight searches drain.
func (ix *Indexer) Close() error {
	ptr := ix.current.Swap(nil)
	if ptr == nil {
		return nil
	}
	ix.wg.Wait()
	return (*ptr).Close()
}

func (ix *Indexer) collectProduct(product string) ([]Document, int) {
	nodes, err := ix.trees.Build(filepath.Join(ix.root, product), "")
	if err != nil {
		log.Printf("search: skipping product %s: %v", product, err)
		return nil, 0
	}

	var docs []Document
	skipped := 0
	for _, node := range tree.Files(nodes) {
		raw, err := ix.fsys.ReadFile(filepath.Join(ix.root, product, filepath.FromSlash(node.Path)))
		if err != nil {
			// Concurrently deleted or unreadable; counted, not logged, so
			// one bad tree cannot flood the log.
			skipped++
			continue
		}
		docs = append(docs, ix.buildDocument(product, node.Path, raw))
	}
	return docs, skipped
}

func (ix *Indexer) buildDocument(product, rel string, raw []byte) Document {
	fileName := path.Base(rel)

	category := product
	if parent := path.Dir(rel); parent != "." {
		category = path.Base(parent)
	}

	plain := render.PlainText(raw)
	return Document{
		Title:    ix.renderer.Title(raw, slug.DisplayName(fileName)),
		Content:  render.Snippet(plain, ix.cfg.SnippetLength),
		Path:     rel,
		Slug:     slug.Encode(fileName),
		FileName: fileName,
		FileType: slug.FileType(fileName),
		Category: category,
		Product:  product,
	}
}

// swap builds a fresh in-memory index from docs and installs it. The
// previous index is closed in the background once running searches finish.
func (ix *Indexer) swap(docs []Document) error {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("search: create index: %w", err)
	}

	batch := idx.NewBatch()
	for n, doc := range docs {
		if err := batch.Index(doc.DocID(), doc); err != nil {
			idx.Close()
			return fmt.Errorf("search: batch %s: %w", doc.DocID(), err)
		}
		if n > 0 && n%100 == 0 {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return fmt.Errorf("search: flush batch: %w", err)
			}
			batch = idx.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return fmt.Errorf("search: flush batch: %w", err)
		}
	}

	old := ix.current.Swap(&idx)
	if old != nil {
		go func() {
			ix.wg.Wait()
			if err := (*old).Close(); err != nil {
				log.Printf("search: closing replaced index: %v", err)
			}
		}()
	}
	return nil
}

func documentFromFields(fields map[string]interface{}) Document {
	var doc Document
	if v, ok := fields["title"].(string); ok {
		doc.Title = v
	}
	if v, ok := fields["content"].(string); ok {
		doc.Content = v
	}
	if v, ok := fields["path"].(string); ok {
		doc.Path = v
	}
	if v, ok := fields["urlSlug"].(string); ok {
		doc.Slug = v
	}
	if v, ok := fields["fileName"].(string); ok {
		doc.FileName = v
	}
	if v, ok := fields["fileType"].(string); ok {
		doc.FileType = v
	}
	if v, ok := fields["category"].(string); ok {
		doc.Category = v
	}
	if v, ok := fields["productId"].(string); ok {
		doc.Product = v
	}
	return doc
}
