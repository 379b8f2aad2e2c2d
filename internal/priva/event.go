package priva

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// EntryType names an event log record as "<category>.<action>".
type EntryType string

const (
	EntryStarted        EntryType = "status.started"
	EntryEnded          EntryType = "status.ended"
	EntryPlayersAdded   EntryType = "players.added"
	EntryPlayersRemoved EntryType = "players.removed"
	EntryBattleStarted  EntryType = "battle.started"
	EntryBattleEnded    EntryType = "battle.ended"
)

// Category returns the part of the type before the dot: status, players
// or battle.
func (t EntryType) Category() string {
	category, _, _ := strings.Cut(string(t), ".")
	return category
}

type StatusPayload struct {
	From Status `json:"from"`
	To   Status `json:"to"`
	// WasInBattle is set when the priva was ended in the middle of a battle.
	WasInBattle bool `json:"was_in_battle,omitempty"`
}

type PlayersPayload struct {
	Players []string `json:"players"`
	// New lists the admitted players that had never been in the priva.
	New []string `json:"new,omitempty"`
}

type BattleStartPayload struct {
	Num   int      `json:"num"`
	TeamA []string `json:"team_a"`
	TeamB []string `json:"team_b"`
	Byes  []string `json:"byes,omitempty"`
}

type BattleEndPayload struct {
	Num     int      `json:"num"`
	Outcome Side     `json:"outcome"`
	Winners []string `json:"winners"`
	Losers  []string `json:"losers"`
	// PrivaWinners is filled by win-goal privas when the battle left at
	// least one active player at the goal. PrevPrivaWinners holds what was
	// recorded before so the battle can be undone.
	PrivaWinners     []string `json:"priva_winners,omitempty"`
	PrevPrivaWinners []string `json:"prev_priva_winners,omitempty"`
}

// Entry is one record of the event log. Exactly one payload is set,
// matching the category of Type.
type Entry struct {
	Time        time.Time           `json:"time"`
	Type        EntryType           `json:"type"`
	Status      *StatusPayload      `json:"status,omitempty"`
	Players     *PlayersPayload     `json:"players,omitempty"`
	BattleStart *BattleStartPayload `json:"battle_start,omitempty"`
	BattleEnd   *BattleEndPayload   `json:"battle_end,omitempty"`
}

func (e Entry) validate() error {
	var ok bool
	switch e.Type {
	case EntryStarted, EntryEnded:
		ok = e.Status != nil
	case EntryPlayersAdded, EntryPlayersRemoved:
		ok = e.Players != nil
	case EntryBattleStarted:
		ok = e.BattleStart != nil
	case EntryBattleEnded:
		ok = e.BattleEnd != nil
	default:
		return fmt.Errorf("unknown entry type %q", e.Type)
	}
	if !ok {
		return fmt.Errorf("entry %q has no payload", e.Type)
	}
	return nil
}

func (e Entry) clone() Entry {
	if e.Status != nil {
		s := *e.Status
		e.Status = &s
	}
	if e.Players != nil {
		p := *e.Players
		p.Players = slices.Clone(p.Players)
		p.New = slices.Clone(p.New)
		e.Players = &p
	}
	if e.BattleStart != nil {
		b := *e.BattleStart
		b.TeamA = slices.Clone(b.TeamA)
		b.TeamB = slices.Clone(b.TeamB)
		b.Byes = slices.Clone(b.Byes)
		e.BattleStart = &b
	}
	if e.BattleEnd != nil {
		b := *e.BattleEnd
		b.Winners = slices.Clone(b.Winners)
		b.Losers = slices.Clone(b.Losers)
		b.PrivaWinners = slices.Clone(b.PrivaWinners)
		b.PrevPrivaWinners = slices.Clone(b.PrevPrivaWinners)
		e.BattleEnd = &b
	}
	return e
}
