package aggregate

import (
	"math"
	"time"

	"dealerhub/internal/utils"

	"github.com/shopspring/decimal"
)

// RoundHalfUp rounds like JavaScript Math.round: halves go toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Percent is round(part / whole * 100), 0 when whole is 0.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(RoundHalfUp(part / whole * 100))
}

// ConversionRate is the share of quotations converted into sales.
func ConversionRate(converted, total int) int {
	return Percent(float64(converted), float64(total))
}

// PaymentProgress is round(paid / debt * 100), 0 when debt is 0.
func PaymentProgress(paid, debt decimal.Decimal) int {
	if debt.IsZero() {
		return 0
	}
	p, _ := paid.Float64()
	d, _ := debt.Float64()
	return Percent(p, d)
}

// AvgDaysToSell is round(30 / rolling3) or fallback when there were no sales.
// The result never drops below one day so turnover stays finite.
func AvgDaysToSell(rolling3 float64, fallback int) int {
	if rolling3 <= 0 {
		return fallback
	}
	days := int(RoundHalfUp(30 / rolling3))
	if days < 1 {
		days = 1
	}
	return days
}

// TurnoverRate is inventory cycles per year, one decimal place.
func TurnoverRate(avgDaysToSell int) float64 {
	if avgDaysToSell <= 0 {
		return 0
	}
	return RoundHalfUp(365/float64(avgDaysToSell)*10) / 10
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TrendWindow is the number of periods on each side of the comparison.
const TrendWindow = 3

type Trend struct {
	Direction TrendDirection `json:"trend"`
	Percent   int            `json:"trendPercent"`
	Recent    float64        `json:"recentAverage"`
	Previous  float64        `json:"previousAverage"`
}

// TrendOf compares the mean of the last three periods with the three before.
// series runs oldest to newest. Short series use whatever periods exist.
func TrendOf(series []float64) Trend {
	n := len(series)
	recentFrom := n - TrendWindow
	if recentFrom < 0 {
		recentFrom = 0
	}
	prevFrom := recentFrom - TrendWindow
	if prevFrom < 0 {
		prevFrom = 0
	}
	recent := mean(series[recentFrom:])
	previous := mean(series[prevFrom:recentFrom])

	t := Trend{Direction: TrendStable, Recent: recent, Previous: previous}
	switch {
	case recent > previous:
		t.Direction = TrendUp
	case recent < previous:
		t.Direction = TrendDown
	}
	if previous != 0 {
		t.Percent = int(RoundHalfUp((recent - previous) / previous * 100))
	}
	return t
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// OverdueDays counts whole days past due; 0 unless due is in the past
// and something remains to be paid.
func OverdueDays(due time.Time, remaining decimal.Decimal, today time.Time) int {
	if due.IsZero() || !remaining.IsPositive() {
		return 0
	}
	days := utils.DaysBetween(due, today)
	if days <= 0 {
		return 0
	}
	return days
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Thresholds are in đồng and must not be rescaled.
var (
	highDebtThreshold   = decimal.NewFromInt(1_000_000_000)
	mediumDebtThreshold = decimal.NewFromInt(500_000_000)
)

// DebtPriority tiers a debt for collection follow-up.
func DebtPriority(remaining decimal.Decimal, overdueDays int) Priority {
	switch {
	case remaining.GreaterThan(highDebtThreshold) || overdueDays > 30:
		return PriorityHigh
	case remaining.GreaterThan(mediumDebtThreshold) || overdueDays > 0:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// PriorityRank orders priorities high first.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
