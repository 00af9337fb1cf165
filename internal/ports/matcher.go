package ports

// PhraseMatcher finds fixed substrings in a line using multi-pattern matching
// (Aho-Corasick). A single pass over the line finds all marker hits at once,
// which matters because the engine runs this on every measured code line.
//
// The automaton is immutable once built; a changed marker list means building
// a new matcher.
type PhraseMatcher interface {
	// Contains reports whether any marker occurs in line.
	Contains(line string) bool

	// First returns the byte offset and index of the leftmost marker
	// occurrence in line, or (-1, -1) when none match.
	First(line string) (offset, pattern int)

	// Pattern returns the marker string at the given index.
	Pattern(idx int) string
}
