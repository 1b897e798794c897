// Package debounce suppresses repeats of an action that arrive within a
// fixed window of its last accepted firing.
package debounce

import "time"

// DefaultWindow is the suppression window for the layout toggle and the
// method cycle
const DefaultWindow = time.Second

// Gate accepts a firing only when the previous accepted one is older than
// Window. The zero Gate uses DefaultWindow.
type Gate struct {
	Window time.Duration

	last  time.Time
	fired bool
}

// New returns a gate with the given window
func New(window time.Duration) *Gate {
	return &Gate{Window: window}
}

// TryFire reports whether the action may run at now. When it returns true
// the gate records now as the last firing; otherwise the gate is unchanged.
func (g *Gate) TryFire(now time.Time) bool {
	window := g.Window
	if window <= 0 {
		window = DefaultWindow
	}

	if g.fired && now.Sub(g.last) <= window {
		return false
	}

	g.last = now
	g.fired = true
	return true
}
