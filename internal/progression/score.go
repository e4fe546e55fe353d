package progression

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// PassThreshold is the lowest score classified as a success.
const PassThreshold = 50.0

// Outcome labels a finalized attempt.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNeedsImprovement Outcome = "needs_improvement"
)

// Score returns correct/total as a percentage rounded to two decimals.
// Exact ties round half to even, like Progress: 1 of 32 scores 3.12.
func Score(correct, total int) float64 {
	if total <= 0 {
		panic(fmt.Sprintf("progression: Score called with total=%d", total))
	}
	pct := float64(correct) / float64(total) * 100
	f, _ := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 2, 64), 64)
	return f
}

// Classify maps a score to its outcome. The threshold is inclusive for success.
func Classify(score float64) Outcome {
	if score < PassThreshold {
		return OutcomeNeedsImprovement
	}
	return OutcomeSuccess
}

// Progress is the percentage shown while the competitor looks at a question,
// given the exam's total and the unanswered count including that question.
// It reaches 100 on the last question. Ties round half to even.
func Progress(total, unanswered int) int {
	if total <= 0 {
		panic(fmt.Sprintf("progression: Progress called with total=%d", total))
	}
	done := float64(unanswered-1) / float64(total) * 100
	return 100 - int(math.RoundToEven(done))
}

// FormatScore renders a score the way notices display it, e.g. 75.0 or 66.67.
func FormatScore(score float64) string {
	return decimal.NewFromFloat(score).StringFixed(1 + trailingDigit(score))
}

// trailingDigit returns 1 when score needs a second decimal place.
func trailingDigit(score float64) int32 {
	d := decimal.NewFromFloat(score)
	if d.Equal(d.Round(1)) {
		return 0
	}
	return 1
}
