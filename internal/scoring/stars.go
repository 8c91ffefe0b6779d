package scoring

// ScoreToStars converts a 0-10 sub-score to a 1-5 star rating.
// Monotone step function with breakpoints at 2, 4, 6 and 8.
func ScoreToStars(score float64) int {
	switch {
	case score >= 8:
		return 5
	case score >= 6:
		return 4
	case score >= 4:
		return 3
	case score >= 2:
		return 2
	default:
		return 1
	}
}

// TotalScoreToStars converts a 0-100 total score to a 1-5 star rating.
// Monotone step function with breakpoints at 20, 40, 60 and 80.
func TotalScoreToStars(totalScore float64) int {
	switch {
	case totalScore >= 80:
		return 5
	case totalScore >= 60:
		return 4
	case totalScore >= 40:
		return 3
	case totalScore >= 20:
		return 2
	default:
		return 1
	}
}
