package recording

import "strconv"

// isNumeral reports whether s is a non-empty string of ASCII digits.
// A leading sign or decimal point makes a value non-numeric: questionnaire
// answers are plain non-negative integers, anything else contributes
// nothing to the score.
func isNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ComputeScore sums the questionnaire item values of a recording. Absent,
// blank, or non-numeral items contribute 0; a fully empty questionnaire
// scores 0. The score is recomputed from the current item values on every
// write, never edited independently.
func ComputeScore(r *Recording) int {
	score := 0
	for _, item := range r.KCCQItems() {
		if item == nil || !isNumeral(*item) {
			continue
		}
		v, err := strconv.Atoi(*item)
		if err != nil {
			continue
		}
		score += v
	}
	return score
}
