package morse

// EncodeRuns collapses a binary light-state sequence into run lengths.
// Each positive entry counts consecutive on-samples; every off-sample
// contributes a 0 entry, so the length of a gap is represented by the
// number of consecutive zeros. A sequence ending mid-run is flushed
// without a trailing gap marker, and trailing zeros are trimmed.
//
// Example: on,on,on,off,off,off,on yields [3 0 0 0 1].
func EncodeRuns(samples []bool) []int {
	var runs []int
	count := 0

	for _, on := range samples {
		if on {
			count++
			continue
		}
		runs = append(runs, count)
		if count > 0 {
			runs = append(runs, 0)
			count = 0
		}
	}
	if count > 0 {
		runs = append(runs, count)
	}

	return trimTrailingGaps(runs)
}

// trimTrailingGaps removes the zero entries at the end of a run list.
// Gaps after the last on-run carry no information.
func trimTrailingGaps(runs []int) []int {
	end := len(runs)
	for end > 0 && runs[end-1] == 0 {
		end--
	}
	return runs[:end]
}
