package priva

import (
	"fmt"
	"slices"
	"time"
)

// Side names one of the two teams of a battle.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

type Battle struct {
	Num       int        `json:"num"`
	TeamA     []string   `json:"team_a"`
	TeamB     []string   `json:"team_b"`
	Byes      []string   `json:"byes,omitempty"`
	Outcome   Side       `json:"outcome,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func (b *Battle) Resolved() bool {
	return b.Outcome != ""
}

// sides returns the winning and losing team for an outcome.
func (b *Battle) sides(outcome Side) (winners, losers []string) {
	if outcome == SideA {
		return b.TeamA, b.TeamB
	}
	return b.TeamB, b.TeamA
}

func (b Battle) clone() Battle {
	b.TeamA = slices.Clone(b.TeamA)
	b.TeamB = slices.Clone(b.TeamB)
	b.Byes = slices.Clone(b.Byes)
	if b.EndedAt != nil {
		t := *b.EndedAt
		b.EndedAt = &t
	}
	return b
}

// Status is the phase of a priva: StatusReady before it starts,
// StatusStarted between start and the first battle, the current or last
// battle number afterwards and StatusOver once it has been ended.
type Status int

const (
	StatusOver    Status = -2
	StatusReady   Status = -1
	StatusStarted Status = 0
)

func (s Status) String() string {
	switch s {
	case StatusOver:
		return "over"
	case StatusReady:
		return "ready"
	case StatusStarted:
		return "started"
	}
	return fmt.Sprintf("battle %d", int(s))
}

// Running reports whether battles can be played in this status.
func (s Status) Running() bool {
	return s >= StatusStarted
}
