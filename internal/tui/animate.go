package tui

import (
	"time"

	"floodalert/internal/modules/risk/scorer"
)

const animationDuration = 1500 * time.Millisecond

// ease decelerates: fast at first, settling into the target.
func ease(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return 1 - (1-x)*(1-x)
}

// animation moves the displayed water level from one depth to another.
type animation struct {
	from, to float64
	start    time.Time
}

func newAnimation(from, to float64, start time.Time) animation {
	return animation{from: scorer.Clamp(from), to: scorer.Clamp(to), start: start}
}

func (a animation) levelAt(now time.Time) float64 {
	x := float64(now.Sub(a.start)) / float64(animationDuration)
	return a.from + (a.to-a.from)*ease(x)
}

func (a animation) done(now time.Time) bool {
	return now.Sub(a.start) >= animationDuration
}
