package search

import "path"

// Document is the denormalized, search-optimized record derived from one
// content file. Field tags double as the index field names.
type Document struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Path     string `json:"path"`
	Slug     string `json:"urlSlug"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Category string `json:"category"`
	Product  string `json:"productId"`
}

// DocID is the index key: the document path prefixed with its product, which
// keeps paths unique across products.
func (d Document) DocID() string {
	return path.Join(d.Product, d.Path)
}

// Result pairs a matched document with its relevance score.
type Result struct {
	Document
	Score float64 `json:"score"`
}
