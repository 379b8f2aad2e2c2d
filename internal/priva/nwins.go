package priva

import "slices"

const (
	minWinGoal  = 2
	tenWinsGoal = 10
)

// NWins is a priva played until somebody reaches a number of wins. Teams
// are always picked automatically and at least eight players are needed
// for a battle.
type NWins struct {
	*Priva
	goal    int
	winners []string
}

func NewNWins(goal int, opts ...Option) (*NWins, error) {
	if goal < minWinGoal {
		return nil, newError(CodeInvalidThreshold, "invalid win goal %d, must be at least %d", goal, minWinGoal)
	}
	return &NWins{
		Priva: newPriva(KindNWins, []int{goal}, battleSize, Balanced{}, opts),
		goal:  goal,
	}, nil
}

// NewTenWins returns the ten-wins variant, which takes no arguments.
func NewTenWins(opts ...Option) *NWins {
	return &NWins{
		Priva: newPriva(KindTenWins, nil, battleSize, Balanced{}, opts),
		goal:  tenWinsGoal,
	}
}

func (n *NWins) Goal() int { return n.goal }

// Winners returns the active players that reached the goal as of the last
// battle that produced any.
func (n *NWins) Winners() []string { return slices.Clone(n.winners) }

func (n *NWins) EndBattle(outcome Side) (Entry, error) {
	return n.endBattle(outcome, func(payload *BattleEndPayload) {
		var reached []string
		for _, pl := range n.ActivePlayers() {
			if pl.Wins >= n.goal {
				reached = append(reached, pl.Name)
			}
		}
		if len(reached) == 0 {
			return
		}
		payload.PrivaWinners = reached
		payload.PrevPrivaWinners = slices.Clone(n.winners)
		n.winners = slices.Clone(reached)
	})
}

func (n *NWins) Undo() (Entry, error) {
	e, err := n.Priva.Undo()
	if err != nil {
		return e, err
	}
	if e.Type == EntryBattleEnded && len(e.BattleEnd.PrivaWinners) > 0 {
		n.winners = slices.Clone(e.BattleEnd.PrevPrivaWinners)
	}
	return e, nil
}

func (n *NWins) Report(locale string) Report {
	r := n.Priva.Report(locale)
	r.WinGoal = n.goal
	r.Winners = n.Winners()
	return r
}

func (n *NWins) Record() Record {
	rec := n.Priva.Record()
	rec.Winners = n.Winners()
	return rec
}

func (n *NWins) restore(rec Record) {
	n.winners = slices.Clone(rec.Winners)
}
