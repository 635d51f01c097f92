package morse

// interLetterGap is the number of consecutive off-units that separate
// two letters.
const interLetterGap = 3

// SegmentLetters splits a run-length list into per-letter patterns.
// It walks left to right counting consecutive zeros; a positive entry
// immediately followed by a zero is taken into the current letter
// together with that zero (the intra-letter separator). Three zeros in
// a row, or the end of the input, closes the current letter; its
// trailing separator is dropped before it is emitted.
//
// Segmenting [3 0 0 0 1] yields [[3] [1]].
func SegmentLetters(runs []int) [][]int {
	var letters [][]int
	var current []int

	breakTime := 0
	last := len(runs) - 1

	for i, length := range runs {
		next := 0
		if i < last {
			next = runs[i+1]
		}

		if length != 0 && next == 0 {
			current = append(current, length, next)
			breakTime = 0
		} else if length == 0 {
			breakTime++
		}

		if breakTime == interLetterGap || i == last {
			if len(current) > 0 {
				current = current[:len(current)-1]
				letters = append(letters, current)
				current = nil
			}
		}
	}

	return letters
}
