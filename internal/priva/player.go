package priva

import "slices"

// MaxActivePlayers is the largest number of players a priva holds at once.
const MaxActivePlayers = 10

type Player struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Byes   int    `json:"byes"`
	Active bool   `json:"active"`
}

// Played is the number of battles the player has a result in.
func (p Player) Played() int {
	return p.Wins + p.Losses
}

// roster keeps players in admission order so that every listing of it is
// deterministic.
type roster struct {
	order   []string
	players map[string]*Player
}

func newRoster() *roster {
	return &roster{players: make(map[string]*Player)}
}

func (r *roster) get(name string) (*Player, bool) {
	p, ok := r.players[name]
	return p, ok
}

func (r *roster) add(name string) *Player {
	p := &Player{Name: name}
	r.order = append(r.order, name)
	r.players[name] = p
	return p
}

func (r *roster) remove(name string) {
	delete(r.players, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func (r *roster) active() []string {
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if r.players[name].Active {
			names = append(names, name)
		}
	}
	return names
}

func (r *roster) activeCount() int {
	n := 0
	for _, p := range r.players {
		if p.Active {
			n++
		}
	}
	return n
}

// snapshot copies the records of the given names, or of every player when
// names is nil.
func (r *roster) snapshot(names []string) []Player {
	if names == nil {
		names = r.order
	}
	out := make([]Player, 0, len(names))
	for _, name := range names {
		out = append(out, *r.players[name])
	}
	return out
}

func (r *roster) each(names []string, fn func(*Player)) {
	for _, name := range names {
		if p, ok := r.players[name]; ok {
			fn(p)
		}
	}
}
