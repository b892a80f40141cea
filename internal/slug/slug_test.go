package slug

import "testing"

func TestEncode(t *testing.T) {
	cases := map[string]string{
		"01-Getting-Started":     "getting-started",
		"Quick-Start.md":         "quick-start",
		"10-API Reference.mdx":   "api-reference",
		"notes_and_ideas.md":     "notes-and-ideas",
		"Weird!!Name??.md":       "weirdname",
		"--already--slugged--":   "already-slugged",
		"02-Ünïcode Héading.md":  "ncode-hading",
		"index.md":               "index",
		"":                       "",
		"123-":                   "",
		"3-Deploy to Prod(v2).md": "deploy-to-prodv2",
	}

	for name, want := range cases {
		if got := Encode(name); got != want {
			t.Fatalf("Encode(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEncodeIsIdempotent(t *testing.T) {
	names := []string{
		"01-Getting-Started",
		"Quick-Start.md",
		"10-API Reference.mdx",
		"notes_and_ideas.md",
		"Weird!!Name??.md",
		"UPPER_case mixed-Things.md",
	}

	for _, name := range names {
		once := Encode(name)
		if twice := Encode(once); twice != once {
			t.Fatalf("Encode not idempotent for %q: %q then %q", name, once, twice)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	entries := []string{
		"01-Getting-Started",
		"02-Advanced Topics",
		"Quick-Start.md",
		"Troubleshooting.mdx",
	}

	for _, name := range entries {
		got, ok := Decode(entries, Encode(name))
		if !ok {
			t.Fatalf("Decode failed for slug of %q", name)
		}
		if got != name {
			t.Fatalf("Decode(%q) = %q, want %q", Encode(name), got, name)
		}
	}
}

func TestDecodeIsCaseInsensitiveAndDeterministic(t *testing.T) {
	entries := []string{"20-Setup", "01-setup"}

	got, ok := Decode(entries, "SETUP")
	if !ok {
		t.Fatalf("Decode failed for colliding slug")
	}
	// Sorted-entry order makes the first match stable regardless of the
	// order the listing arrived in.
	if got != "01-setup" {
		t.Fatalf("Decode resolved %q, want %q", got, "01-setup")
	}

	if _, ok := Decode(entries, "missing"); ok {
		t.Fatalf("Decode matched a slug that no entry encodes to")
	}
	if _, ok := Decode(entries, "   "); ok {
		t.Fatalf("Decode matched a blank slug")
	}
}

func TestCollides(t *testing.T) {
	entries := []string{"01-Setup", "Reference.md"}

	if sibling, ok := Collides(entries, "02-setup.md"); !ok || sibling != "01-Setup" {
		t.Fatalf("expected collision with 01-Setup, got %q ok=%v", sibling, ok)
	}
	if _, ok := Collides(entries, "01-Setup"); ok {
		t.Fatalf("a name must not collide with itself")
	}
	if _, ok := Collides(entries, "Changelog.md"); ok {
		t.Fatalf("unexpected collision for unique name")
	}
}

func TestSplitOrder(t *testing.T) {
	if order, rest := SplitOrder("01-Getting-Started"); order != 1 || rest != "Getting-Started" {
		t.Fatalf("SplitOrder = (%d, %q)", order, rest)
	}
	if order, rest := SplitOrder("120-deep"); order != 120 || rest != "deep" {
		t.Fatalf("SplitOrder = (%d, %q)", order, rest)
	}
	if order, rest := SplitOrder("Unprefixed.md"); order != DefaultOrder || rest != "Unprefixed.md" {
		t.Fatalf("SplitOrder = (%d, %q)", order, rest)
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"01-Getting-Started": "Getting Started",
		"Quick-Start.md":     "Quick Start",
		"notes_and_ideas.md": "notes and ideas",
	}
	for name, want := range cases {
		if got := DisplayName(name); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFileHelpers(t *testing.T) {
	if !IsMarkdown("a.md") || !IsMarkdown("b.MDX") || IsMarkdown("c.txt") {
		t.Fatalf("IsMarkdown misclassified an extension")
	}
	if FileType("a.mdx") != "mdx" || FileType("a.md") != "md" {
		t.Fatalf("FileType misclassified an extension")
	}
	if !IsIndex("index.md") || !IsIndex("INDEX.mdx") || IsIndex("appendix.md") {
		t.Fatalf("IsIndex misclassified a name")
	}
}
