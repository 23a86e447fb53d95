package engine

// Clock manages in-game time. One turn is one in-game hour; there is no
// wall-clock coupling, the Simulation advances it synchronously so that
// replays with the same inputs land on identical timestamps.
// It does NOT know about agents or infection, only time progression.
type Clock struct {
	turn int
	day  int
	hour int
}

// NewClock starts the calendar at the scenario's opening hour on day 1.
func NewClock(startHour int) *Clock {
	if startHour < 0 || startHour > 23 {
		startHour = 0
	}
	return &Clock{day: 1, hour: startHour}
}

// Advance moves the clock forward one turn and returns the new turn number.
func (c *Clock) Advance() int {
	c.turn++
	c.hour++
	if c.hour >= 24 {
		c.hour = 0
		c.day++
	}
	return c.turn
}

// SetTime positions the clock directly. Used by snapshot restore.
func (c *Clock) SetTime(turn, day, hour int) {
	c.turn = turn
	c.day = day
	c.hour = hour
}

// Turn returns the current turn number, starting at 0 before any advance.
func (c *Clock) Turn() int { return c.turn }

// Time returns the current in-game day and hour.
func (c *Clock) Time() (day, hour int) { return c.day, c.hour }

// IsNight reports whether the hour falls in the 22:00-06:00 window.
func (c *Clock) IsNight() bool {
	return c.hour >= 22 || c.hour < 6
}
