package model

import "fmt"

// The capacity ledger is the pair (MaxAttendees, SeatsAvailable) embedded in
// a Conference. MaxAttendees == 0 means unlimited: no seat is ever counted.
// Otherwise 0 <= SeatsAvailable <= MaxAttendees holds after every mutation.

// Unlimited reports whether the conference bypasses capacity checks.
func (c *Conference) Unlimited() bool {
	return c.MaxAttendees == 0
}

// InitSeats sets SeatsAvailable for a newly created conference.
func (c *Conference) InitSeats() {
	if c.MaxAttendees > 0 {
		c.SeatsAvailable = c.MaxAttendees
		return
	}
	c.SeatsAvailable = 0
}

// ReserveSeat takes one seat, failing with ErrNoSeats when none remain.
func (c *Conference) ReserveSeat() error {
	if c.Unlimited() {
		return nil
	}
	if c.SeatsAvailable <= 0 {
		return ErrNoSeats
	}
	c.SeatsAvailable--
	return nil
}

// ReleaseSeat gives one seat back.
func (c *Conference) ReleaseSeat() error {
	if c.Unlimited() {
		return nil
	}
	if c.SeatsAvailable >= c.MaxAttendees {
		return fmt.Errorf("release seat on %s: all %d seats already available", c.Key, c.MaxAttendees)
	}
	c.SeatsAvailable++
	return nil
}

// CheckLedger verifies the capacity invariant.
func (c *Conference) CheckLedger() error {
	if c.MaxAttendees < 0 {
		return NewValidationError("maxAttendees", "must not be negative")
	}
	if c.SeatsAvailable < 0 {
		return fmt.Errorf("conference %s: negative seats available (%d)", c.Key, c.SeatsAvailable)
	}
	if !c.Unlimited() && c.SeatsAvailable > c.MaxAttendees {
		return fmt.Errorf("conference %s: %d seats available exceeds capacity %d", c.Key, c.SeatsAvailable, c.MaxAttendees)
	}
	return nil
}
