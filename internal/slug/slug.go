// Package slug maps on-disk content names to public URL identifiers.
//
// On-disk names may carry a leading "<digits>-" ordinal prefix that controls
// display order. The prefix is stripped from both the display name and the
// slug, which makes the encoding lossy: decoding always goes back through the
// actual directory listing rather than inverting the transform.
package slug

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultOrder is assigned to entries without an ordinal prefix so they sort
// after every explicitly ordered sibling.
const DefaultOrder = 999999

var (
	ordinalRe  = regexp.MustCompile(`^(\d+)-`)
	invalidRe  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
	spaceRuns  = regexp.MustCompile(`[\s_]+`)
	labelRuns  = regexp.MustCompile(`[-_]+`)
)

// Encode derives the public slug for an on-disk name: the markdown extension
// and ordinal prefix are stripped, the remainder is lowercased, space and
// underscore runs become single hyphens, and anything outside [a-z0-9-] is
// dropped. Encode is idempotent.
func Encode(name string) string {
	s := TrimExtension(name)
	s = ordinalRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = spaceRuns.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Decode scans entries for the first name whose encoded form equals the
// requested slug, case-insensitively. Entries are compared in sorted order so
// the first-match rule does not depend on filesystem iteration order.
func Decode(entries []string, requested string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(requested))
	if want == "" {
		return "", false
	}

	sorted := append([]string(nil), entries...)
	sort.Strings(sorted)

	for _, entry := range sorted {
		if Encode(entry) == want {
			return entry, true
		}
	}
	return "", false
}

// Collides reports whether name's slug duplicates the slug of any sibling in
// entries, ignoring a sibling with the identical on-disk name. Used to reject
// ambiguous names at write time instead of letting reads resolve first-match.
func Collides(entries []string, name string) (string, bool) {
	want := Encode(name)
	if want == "" {
		return "", false
	}
	for _, entry := range entries {
		if entry == name {
			continue
		}
		if Encode(entry) == want {
			return entry, true
		}
	}
	return "", false
}

// SplitOrder parses the ordinal prefix from an on-disk name, returning the
// sort key and the remainder. Names without a prefix receive DefaultOrder.
func SplitOrder(name string) (int, string) {
	match := ordinalRe.FindStringSubmatch(name)
	if match == nil {
		return DefaultOrder, name
	}

	order, err := strconv.Atoi(match[1])
	if err != nil {
		return DefaultOrder, name
	}
	return order, name[len(match[0]):]
}

// DisplayName renders a human-readable label for an on-disk name: extension
// and ordinal prefix removed, hyphen and underscore runs as single spaces.
func DisplayName(name string) string {
	_, rest := SplitOrder(TrimExtension(name))
	rest = labelRuns.ReplaceAllString(rest, " ")
	return strings.TrimSpace(rest)
}

// TrimExtension removes a trailing markdown extension, if present.
func TrimExtension(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".mdx"):
		return name[:len(name)-len(".mdx")]
	case strings.HasSuffix(lower, ".md"):
		return name[:len(name)-len(".md")]
	}
	return name
}

// IsMarkdown reports whether name carries a supported content extension.
func IsMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".mdx")
}

// FileType returns the canonical file type for a markdown name: "md" or "mdx".
func FileType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".mdx") {
		return "mdx"
	}
	return "md"
}

// IsIndex reports whether name is a category index file (index.md/index.mdx).
func IsIndex(name string) bool {
	lower := strings.ToLower(name)
	return lower == "index.md" || lower == "index.mdx"
}
