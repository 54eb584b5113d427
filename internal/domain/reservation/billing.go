package reservation

import (
	"math"
	"time"
)

// OverstayMultiplier is the surcharge factor applied to time parked past the
// reserved end.
const OverstayMultiplier = 1.5

// BaseAmount charges exact fractional hours at the slot's rate. A 90 minute
// window at 1000 cents/h owes 1500 cents, not 2000.
func BaseAmount(window TimeWindow, hourlyRateCents int64) Money {
	hours := window.Duration().Hours()
	return NewMoney(int64(math.Round(hours * float64(hourlyRateCents))))
}

// OverstayAmount charges whole hours, rounded up, at the surcharged rate.
// Any portion of an hour past the reserved end counts as a full hour.
func OverstayAmount(elapsedPastEnd time.Duration, hourlyRateCents int64) Money {
	if elapsedPastEnd <= 0 {
		return NewMoney(0)
	}
	hours := math.Ceil(elapsedPastEnd.Hours())
	return NewMoney(int64(math.Round(hours * float64(hourlyRateCents) * OverstayMultiplier)))
}
