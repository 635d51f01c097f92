// Package morse decodes a sequence of binary light-state samples into a
// single word of Morse code. The pipeline collapses the samples into run
// lengths (how long the light stayed on), segments the run lengths into
// letters using the three-unit inter-letter gap, and maps each letter's
// dot/dash pattern to a character through a fixed dictionary.
//
// A dot is one on-sample, a dash three; a single 0 entry is one off-sample.
package morse

import "math"

// Classifier turns a raw ambient-light reading into an on/off state by
// comparing it against the two calibrated reference intensities.
type Classifier struct {
	MaxRef float64 // reading taken with the light shining at the sensor
	MinRef float64 // reading taken with the light off
}

// IsOn reports whether a reading is closer to the lit reference than to
// the dark one.
func (c Classifier) IsOn(reading float64) bool {
	return math.Abs(reading-c.MaxRef) < math.Abs(reading-c.MinRef)
}

// Decode runs the full pipeline on a classified sample sequence and
// returns the translated word along with the trimmed run lengths.
func Decode(samples []bool, dict *Dictionary) (string, []int) {
	runs := EncodeRuns(samples)
	letters := SegmentLetters(runs)
	return dict.Translate(letters), runs
}
