package ratings

import "math"

// Average returns the arithmetic mean of the ratings, or 0 for no reviews.
func Average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// Round1 rounds x to one decimal place, halves rounding up.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// Band is a coarse quality tier for an average, used for colouring.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// BandFor classifies the displayed (rounded) average.
func BandFor(avg float64) Band {
	x := Round1(avg)
	switch {
	case x >= 9.5:
		return BandExcellent
	case x >= 7:
		return BandGood
	case x >= 4:
		return BandFair
	default:
		return BandPoor
	}
}

// Stars maps an average on the 0..10 scale to 0..5 stars, fractional part kept.
func Stars(avg float64) float64 {
	return math.Max(0, math.Min(5, avg/10*5))
}
