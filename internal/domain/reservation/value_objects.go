package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWindow = errors.New("window end must be after start")
	ErrWindowInPast  = errors.New("window start is in the past")
)

// PastStartTolerance absorbs clock skew between clients and the server when
// validating that a requested window is not in the past.
const PastStartTolerance = 5 * time.Minute

// TimeWindow is a half-open interval [start, end) in UTC. Back-to-back
// windows (one ending exactly when the next starts) do not overlap.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

// NewFutureTimeWindow additionally rejects windows starting materially before
// now (beyond PastStartTolerance).
func NewFutureTimeWindow(start, end, now time.Time) (TimeWindow, error) {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		return TimeWindow{}, err
	}
	if w.start.Before(now.UTC().Add(-PastStartTolerance)) {
		return TimeWindow{}, ErrWindowInPast
	}
	return w, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps applies the single half-open test: two windows conflict iff each
// starts before the other ends.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w TimeWindow) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.start) && t.Before(w.end)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
