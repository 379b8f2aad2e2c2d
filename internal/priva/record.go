package priva

import (
	"fmt"
	"slices"
)

// Kind is the registered type name of a priva variant.
type Kind string

const (
	KindCommon  Kind = "common"
	KindNWins   Kind = "n_wins"
	KindTenWins Kind = "ten_wins"
)

// Kinds lists every registered variant.
func Kinds() []Kind {
	return []Kind{KindCommon, KindNWins, KindTenWins}
}

func (k Kind) rulesPackage() string {
	if k == KindTenWins {
		return string(KindNWins)
	}
	return string(k)
}

// Instance is the behaviour shared by every priva variant.
type Instance interface {
	Kind() Kind
	Args() []int
	Status() Status
	InBattle() bool
	Players() []Player
	ActivePlayers() []Player
	Battles() []Battle
	Standings() []Player
	Logs(n int) []Entry

	Start() (Entry, error)
	End() Entry
	AddPlayers(names []string) (Entry, error)
	RemovePlayers(names []string) (Entry, error)
	StartBattle(teamA, teamB []string) (Entry, error)
	EndBattle(outcome Side) (Entry, error)
	Undo() (Entry, error)

	Report(locale string) Report
	Rules(locale string) string
	Record() Record
	String() string

	core() *Priva
}

var (
	_ Instance = (*Priva)(nil)
	_ Instance = (*NWins)(nil)
)

// New builds a fresh priva of the given kind from its constructor args.
func New(kind Kind, args []int, opts ...Option) (Instance, error) {
	switch kind {
	case KindCommon, KindTenWins:
		if len(args) != 0 {
			return nil, newError(CodeInvalidArguments, "%s takes no arguments, got %d", kind, len(args))
		}
		if kind == KindCommon {
			return NewCommon(opts...), nil
		}
		return NewTenWins(opts...), nil
	case KindNWins:
		if len(args) != 1 {
			return nil, newError(CodeInvalidArguments, "%s takes the win goal as its only argument, got %d", kind, len(args))
		}
		n, err := NewNWins(args[0], opts...)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, newError(CodeUnknownType, "unknown priva type %q", kind)
}

// Record is the serialisable state of a priva.
type Record struct {
	Type     Kind           `json:"type"`
	Args     []int          `json:"args"`
	Status   Status         `json:"status"`
	InBattle bool           `json:"in_battle"`
	Logs     []Entry        `json:"logs"`
	Battles  map[int]Battle `json:"battles"`
	Players  []Player       `json:"players"`
	Winners  []string       `json:"winners,omitempty"`
}

func (p *Priva) Record() Record {
	rec := Record{
		Type:     p.kind,
		Args:     slices.Clone(p.args),
		Status:   p.status,
		InBattle: p.inBattle,
		Logs:     p.Logs(0),
		Battles:  make(map[int]Battle, len(p.battles)),
		Players:  p.Players(),
	}
	for num, b := range p.battles {
		rec.Battles[num] = b.clone()
	}
	return rec
}

// FromRecord rebuilds a priva from a record produced by Record.
func FromRecord(rec Record, opts ...Option) (Instance, error) {
	inst, err := New(rec.Type, rec.Args, opts...)
	if err != nil {
		return nil, err
	}
	if rec.Status < StatusOver {
		return nil, fmt.Errorf("invalid record: status %d", rec.Status)
	}

	p := inst.core()
	for _, pl := range rec.Players {
		if _, dup := p.roster.get(pl.Name); dup {
			return nil, fmt.Errorf("invalid record: player %q listed twice", pl.Name)
		}
		*p.roster.add(pl.Name) = pl
	}
	for num, b := range rec.Battles {
		if b.Num != num {
			return nil, fmt.Errorf("invalid record: battle %d stored under %d", b.Num, num)
		}
		b = b.clone()
		p.battles[num] = &b
	}
	for i, e := range rec.Logs {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("invalid record: log %d: %w", i, err)
		}
		p.log = append(p.log, e.clone())
	}
	p.status = rec.Status
	p.inBattle = rec.InBattle

	if n, ok := inst.(*NWins); ok {
		n.restore(rec)
	}
	return inst, nil
}
