package morse

import "slices"

// Dictionary maps the 26 uppercase Latin letters to their dot/dash
// patterns. Patterns carry the intra-letter 0 separators, matching the
// form produced by SegmentLetters. The dictionary is immutable after
// construction; inject one instance rather than sharing ambient state.
type Dictionary struct {
	entries []entry
}

type entry struct {
	char    byte
	pattern []int
}

// NewDictionary builds the standard international Morse alphabet.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: []entry{
		{'A', []int{1, 0, 3}},
		{'B', []int{3, 0, 1, 0, 1, 0, 1}},
		{'C', []int{3, 0, 1, 0, 3, 0, 1}},
		{'D', []int{3, 0, 1, 0, 1}},
		{'E', []int{1}},
		{'F', []int{1, 0, 1, 0, 3, 0, 1}},
		{'G', []int{3, 0, 3, 0, 1}},
		{'H', []int{1, 0, 1, 0, 1, 0, 1}},
		{'I', []int{1, 0, 1}},
		{'J', []int{1, 0, 3, 0, 3, 0, 3}},
		{'K', []int{3, 0, 1, 0, 3}},
		{'L', []int{1, 0, 3, 0, 1, 0, 1}},
		{'M', []int{3, 0, 3}},
		{'N', []int{3, 0, 1}},
		{'O', []int{3, 0, 3, 0, 3}},
		{'P', []int{1, 0, 3, 0, 3, 0, 1}},
		{'Q', []int{3, 0, 3, 0, 1, 0, 3}},
		{'R', []int{1, 0, 3, 0, 1}},
		{'S', []int{1, 0, 1, 0, 1}},
		{'T', []int{3}},
		{'U', []int{1, 0, 1, 0, 3}},
		{'V', []int{1, 0, 1, 0, 1, 0, 3}},
		{'W', []int{1, 0, 3, 0, 3}},
		{'X', []int{3, 0, 1, 0, 1, 0, 3}},
		{'Y', []int{3, 0, 1, 0, 3, 0, 3}},
		{'Z', []int{3, 0, 3, 0, 1, 0, 1}},
	}}
}

// Len returns the number of letters in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup finds the letter whose pattern exactly matches. Patterns are
// unique by construction, so at most one entry can match.
func (d *Dictionary) Lookup(pattern []int) (byte, bool) {
	for _, e := range d.entries {
		if slices.Equal(e.pattern, pattern) {
			return e.char, true
		}
	}
	return 0, false
}

// Translate maps each letter pattern to its character. Patterns that
// match no entry are silently skipped rather than failing the decode;
// a garbled transmission loses letters, not the whole word. The result
// may be empty.
func (d *Dictionary) Translate(letters [][]int) string {
	word := make([]byte, 0, len(letters))
	for _, pattern := range letters {
		if char, ok := d.Lookup(pattern); ok {
			word = append(word, char)
		}
	}
	return string(word)
}
