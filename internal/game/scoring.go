package game

import "time"

// maxAward is the score for an instant correct answer. The award decays
// linearly by 100 points per second, reaching zero at ten seconds.
const maxAward = 1000

// Points maps an answer's correctness and its elapsed time since the
// question became current to a point award. Incorrect answers always
// score zero. Elapsed is non-negative by construction: it is measured
// from the question-start stamp to answer receipt.
func Points(correct bool, elapsed time.Duration) int {
	if !correct {
		return 0
	}

	award := maxAward - int(elapsed.Seconds()*100)
	if award < 0 {
		award = 0
	}
	return award
}
