package priva

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/AdamBeresnev/privas/internal/utils"
)

// maxByes is how many active players may sit out a battle.
const maxByes = 2

// Priva is the generic battle tracker. Its variants differ in how many
// players they need before a battle and in how teams are picked when the
// caller does not name them.
type Priva struct {
	kind       Kind
	args       []int
	minPlayers int
	matcher    Matchmaker

	status   Status
	inBattle bool
	roster   *roster
	battles  map[int]*Battle
	log      []Entry

	rng *rand.Rand
	now func() time.Time
}

func newPriva(kind Kind, args []int, minPlayers int, m Matchmaker, opts []Option) *Priva {
	o := buildOptions(opts)
	return &Priva{
		kind:       kind,
		args:       args,
		minPlayers: minPlayers,
		matcher:    m,
		status:     StatusReady,
		roster:     newRoster(),
		battles:    make(map[int]*Battle),
		rng:        o.rng,
		now:        o.now,
	}
}

// NewCommon returns a priva in which the caller names both teams of every
// battle.
func NewCommon(opts ...Option) *Priva {
	return newPriva(KindCommon, nil, 0, Explicit{}, opts)
}

func (p *Priva) core() *Priva { return p }

func (p *Priva) Kind() Kind { return p.kind }

func (p *Priva) Args() []int { return slices.Clone(p.args) }

func (p *Priva) Status() Status { return p.status }

func (p *Priva) InBattle() bool { return p.inBattle }

// Players returns every player ever admitted, in admission order.
func (p *Priva) Players() []Player {
	return p.roster.snapshot(nil)
}

// ActivePlayers returns the players currently in the priva.
func (p *Priva) ActivePlayers() []Player {
	return p.roster.snapshot(p.roster.active())
}

// Battles returns the ledger ordered by battle number.
func (p *Priva) Battles() []Battle {
	out := make([]Battle, 0, len(p.battles))
	for _, num := range p.battleNums() {
		out = append(out, p.battles[num].clone())
	}
	return out
}

func (p *Priva) battleNums() []int {
	nums := make([]int, 0, len(p.battles))
	for num := range p.battles {
		nums = append(nums, num)
	}
	slices.Sort(nums)
	return nums
}

// Logs returns the last n log entries, or the whole log when n <= 0.
func (p *Priva) Logs(n int) []Entry {
	from := 0
	if n > 0 && n < len(p.log) {
		from = len(p.log) - n
	}
	out := make([]Entry, 0, len(p.log)-from)
	for _, e := range p.log[from:] {
		out = append(out, e.clone())
	}
	return out
}

func (p *Priva) logEntry(at time.Time, e Entry) Entry {
	e.Time = at
	p.log = append(p.log, e)
	return e.clone()
}

func (p *Priva) Start() (Entry, error) {
	if p.status != StatusReady {
		return Entry{}, newError(CodeAlreadyStarted, "the priva is already started (status %s)", p.status)
	}
	p.status = StatusStarted
	return p.logEntry(p.now(), Entry{
		Type:   EntryStarted,
		Status: &StatusPayload{From: StatusReady, To: StatusStarted},
	}), nil
}

// End closes the priva from any state, including the middle of a battle.
func (p *Priva) End() Entry {
	payload := &StatusPayload{From: p.status, To: StatusOver, WasInBattle: p.inBattle}
	p.status = StatusOver
	p.inBattle = false
	return p.logEntry(p.now(), Entry{Type: EntryEnded, Status: payload})
}

func (p *Priva) AddPlayers(names []string) (Entry, error) {
	if p.inBattle {
		return Entry{}, newError(CodeBattleInProgress, "cannot add players during battle %d", p.status)
	}
	seen := make(map[string]bool, len(names))
	var fresh []string
	for _, name := range names {
		if seen[name] {
			return Entry{}, newError(CodeDuplicateActivePlayer, "%s is listed more than once", name)
		}
		seen[name] = true
		pl, ok := p.roster.get(name)
		if !ok {
			fresh = append(fresh, name)
			continue
		}
		if pl.Active {
			return Entry{}, newError(CodeDuplicateActivePlayer, "%s is already in this priva", name)
		}
	}
	if p.roster.activeCount()+len(names) > MaxActivePlayers {
		return Entry{}, newError(CodeRosterFull, "too many (>%d) players", MaxActivePlayers)
	}

	for _, name := range names {
		pl, ok := p.roster.get(name)
		if !ok {
			pl = p.roster.add(name)
		}
		pl.Active = true
	}
	return p.logEntry(p.now(), Entry{
		Type:    EntryPlayersAdded,
		Players: &PlayersPayload{Players: slices.Clone(names), New: fresh},
	}), nil
}

func (p *Priva) RemovePlayers(names []string) (Entry, error) {
	if p.inBattle {
		return Entry{}, newError(CodeBattleInProgress, "cannot remove players during battle %d", p.status)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		pl, ok := p.roster.get(name)
		if !ok || !pl.Active || seen[name] {
			return Entry{}, newError(CodeNotActive, "%s is not in this priva", name)
		}
		seen[name] = true
	}

	p.roster.each(names, func(pl *Player) { pl.Active = false })
	return p.logEntry(p.now(), Entry{
		Type:    EntryPlayersRemoved,
		Players: &PlayersPayload{Players: slices.Clone(names)},
	}), nil
}

// StartBattle opens the next battle. When both teams are empty the
// priva's matchmaker picks them.
func (p *Priva) StartBattle(teamA, teamB []string) (Entry, error) {
	if !p.status.Running() {
		return Entry{}, newError(CodeNotRunning, "the priva is not running (status %s)", p.status)
	}
	if p.inBattle {
		return Entry{}, newError(CodeBattleInProgress, "battle %d has not ended", p.status)
	}
	if active := p.roster.activeCount(); active < p.minPlayers {
		return Entry{}, newError(CodeInsufficientPlayers, "not enough players: %d active, %d required", active, p.minPlayers)
	}

	switch {
	case len(teamA) == 0 && len(teamB) == 0:
		teams, err := p.matcher.Match(p.ActivePlayers(), p.rng)
		if err != nil {
			return Entry{}, err
		}
		teamA, teamB = teams.A, teams.B
	case len(teamA) == 0 || len(teamB) == 0:
		return Entry{}, newError(CodeInvalidCombination, "both teams must be given")
	}
	byes, err := p.checkTeams(teamA, teamB)
	if err != nil {
		return Entry{}, err
	}

	at := p.now()
	p.status++
	p.inBattle = true
	num := int(p.status)
	p.battles[num] = &Battle{
		Num:       num,
		TeamA:     slices.Clone(teamA),
		TeamB:     slices.Clone(teamB),
		Byes:      slices.Clone(byes),
		StartedAt: at,
	}
	p.roster.each(byes, func(pl *Player) { pl.Byes++ })
	return p.logEntry(at, Entry{
		Type: EntryBattleStarted,
		BattleStart: &BattleStartPayload{
			Num:   num,
			TeamA: slices.Clone(teamA),
			TeamB: slices.Clone(teamB),
			Byes:  byes,
		},
	}), nil
}

// checkTeams validates a pairing and returns the active players it leaves
// out, in admission order.
func (p *Priva) checkTeams(teamA, teamB []string) ([]string, error) {
	active := p.roster.active()
	picked := make(map[string]bool, len(teamA)+len(teamB))
	for _, team := range [][]string{teamA, teamB} {
		for _, name := range team {
			if picked[name] {
				return nil, newError(CodeInvalidCombination, "%s appears more than once", name)
			}
			if !slices.Contains(active, name) {
				return nil, newError(CodeInvalidCombination, "%s is not an active player", name)
			}
			picked[name] = true
		}
	}
	var byes []string
	for _, name := range active {
		if !picked[name] {
			byes = append(byes, name)
		}
	}
	if len(byes) > maxByes {
		return nil, newError(CodeInvalidCombination, "too many (>%d) players left out", maxByes)
	}
	return byes, nil
}

func (p *Priva) EndBattle(outcome Side) (Entry, error) {
	return p.endBattle(outcome, nil)
}

// endBattle resolves the current battle. settle runs after the roster has
// been updated and may extend the payload.
func (p *Priva) endBattle(outcome Side, settle func(*BattleEndPayload)) (Entry, error) {
	if p.status <= StatusStarted || !p.inBattle {
		return Entry{}, newError(CodeNoActiveBattle, "no battle in progress (status %s)", p.status)
	}
	if !outcome.Valid() {
		return Entry{}, newError(CodeInvalidOutcome, "invalid outcome %q, want %q or %q", outcome, SideA, SideB)
	}

	at := p.now()
	b := p.battles[int(p.status)]
	b.Outcome = outcome
	b.EndedAt = utils.Ptr(at)
	p.inBattle = false

	winners, losers := b.sides(outcome)
	p.roster.each(winners, func(pl *Player) { pl.Wins++ })
	p.roster.each(losers, func(pl *Player) { pl.Losses++ })

	payload := &BattleEndPayload{
		Num:     b.Num,
		Outcome: outcome,
		Winners: slices.Clone(winners),
		Losers:  slices.Clone(losers),
	}
	if settle != nil {
		settle(payload)
	}
	return p.logEntry(at, Entry{Type: EntryBattleEnded, BattleEnd: payload}), nil
}

// Undo reverts the most recent operation and returns its log entry.
func (p *Priva) Undo() (Entry, error) {
	if len(p.log) == 0 {
		return Entry{}, newError(CodeNothingToUndo, "no action to undo")
	}
	last := p.log[len(p.log)-1]
	p.log = p.log[:len(p.log)-1]
	p.revert(last)
	return last, nil
}

func (p *Priva) revert(e Entry) {
	switch e.Type {
	case EntryStarted:
		p.status = e.Status.From
	case EntryEnded:
		p.status = e.Status.From
		p.inBattle = e.Status.WasInBattle
	case EntryPlayersAdded:
		for _, name := range e.Players.Players {
			if slices.Contains(e.Players.New, name) {
				p.roster.remove(name)
				continue
			}
			p.roster.each([]string{name}, func(pl *Player) { pl.Active = false })
		}
	case EntryPlayersRemoved:
		p.roster.each(e.Players.Players, func(pl *Player) { pl.Active = true })
	case EntryBattleStarted:
		delete(p.battles, e.BattleStart.Num)
		p.status = Status(e.BattleStart.Num - 1)
		p.inBattle = false
		p.roster.each(e.BattleStart.Byes, func(pl *Player) { pl.Byes-- })
	case EntryBattleEnded:
		if b, ok := p.battles[e.BattleEnd.Num]; ok {
			b.Outcome = ""
			b.EndedAt = nil
		}
		p.inBattle = true
		p.roster.each(e.BattleEnd.Winners, func(pl *Player) { pl.Wins-- })
		p.roster.each(e.BattleEnd.Losers, func(pl *Player) { pl.Losses-- })
	}
}
