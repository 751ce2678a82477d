// Package flightstate holds the flight status lifecycle:
// NOT_DEPARTED -> DEPARTED -> LANDED, one step at a time, never backwards.
package flightstate

import (
	"errors"
	"slices"
)

type Status string

const (
	StatusNotDeparted Status = "NOT_DEPARTED"
	StatusDeparted    Status = "DEPARTED"
	StatusLanded      Status = "LANDED"
)

// Effect is a side effect the caller must apply along with a transition.
type Effect string

const (
	// EffectReleaseRoster clears the account role of every roster member of
	// the flight and zeroes their roster entry role. Applying it twice leaves
	// the same state.
	EffectReleaseRoster Effect = "release_roster"
)

var (
	ErrInvalidTransition = errors.New("invalid flight status transition")
	ErrFlightNotMutable  = errors.New("flight can only be changed before departure")
	ErrFlightClosed      = errors.New("flight has landed")
)

var next = map[Status]Status{
	StatusNotDeparted: StatusDeparted,
	StatusDeparted:    StatusLanded,
}

var effects = map[Status][]Effect{
	StatusLanded: {EffectReleaseRoster},
}

// Initial is the status every new flight starts in.
func Initial() Status {
	return StatusNotDeparted
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotDeparted, StatusDeparted, StatusLanded:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s == StatusLanded
}

// Advance returns the status following current and the effects of entering it.
func Advance(current Status) (Status, []Effect, error) {
	target, ok := next[current]
	if !ok {
		return current, nil, ErrInvalidTransition
	}
	return target, slices.Clone(effects[target]), nil
}

// Transition validates an explicitly requested move from -> to.
func Transition(from, to Status) ([]Effect, error) {
	target, ok := next[from]
	if !ok || target != to {
		return nil, ErrInvalidTransition
	}
	return slices.Clone(effects[to]), nil
}

// CanMutateFlight guards editing, deleting and rostering a flight.
func CanMutateFlight(s Status) error {
	if s != StatusNotDeparted {
		return ErrFlightNotMutable
	}
	return nil
}

// CanCreateDocument allows new documents on any flight that has not landed.
func CanCreateDocument(s Status) error {
	if s == StatusLanded {
		return ErrFlightClosed
	}
	return nil
}
