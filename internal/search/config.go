package search

// DefaultLimit bounds result sets when the caller does not ask for a size.
const DefaultLimit = 20

// Config tunes indexing and query behavior.
type Config struct {
	// Fuzziness is the edit distance allowed on query terms.
	Fuzziness int
	// MinMatchLength is the shortest query that produces results; anything
	// shorter is treated as noise and returns nothing.
	MinMatchLength int
	// SnippetLength caps the plain-text extract stored per document, in runes.
	SnippetLength int
	// MaxCandidates is how deep the ranked candidate list goes before the
	// product filter and limit are applied.
	MaxCandidates int
	// DefaultLimit bounds result sets when the caller does not ask for a
	// size.
	DefaultLimit int
}

func (c Config) withDefaults() Config {
	if c.Fuzziness <= 0 {
		c.Fuzziness = 1
	}
	if c.MinMatchLength <= 0 {
		c.MinMatchLength = 2
	}
	if c.SnippetLength <= 0 {
		c.SnippetLength = 500
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 500
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	return c
}

// Field boosts for the weighted disjunction, in decreasing importance.
var fieldBoosts = []struct {
	field string
	boost float64
}{
	{"title", 10},
	{"content", 5},
	{"category", 3},
	{"path", 1},
}
