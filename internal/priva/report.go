package priva

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/AdamBeresnev/privas/internal/rules"
	"github.com/AdamBeresnev/privas/internal/utils"
)

type Report struct {
	Name         string     `json:"name"`
	Type         Kind       `json:"type"`
	Status       Status     `json:"status"`
	InBattle     bool       `json:"in_battle"`
	Standings    []Player   `json:"standings"`
	RecentBattle *Battle    `json:"recent_battle"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	WinGoal      int        `json:"win_goal,omitempty"`
	Winners      []string   `json:"winners,omitempty"`
}

// Standings returns every player ordered by wins, then by fewest losses.
// Players with the same record keep their admission order.
func (p *Priva) Standings() []Player {
	players := p.Players()
	slices.SortStableFunc(players, func(a, b Player) int {
		return cmp.Or(cmp.Compare(b.Wins, a.Wins), cmp.Compare(a.Losses, b.Losses))
	})
	return players
}

// RecentBattle is the battle being played or last played, if any.
func (p *Priva) RecentBattle() (Battle, bool) {
	num := int(p.status)
	if p.status == StatusOver {
		nums := p.battleNums()
		if len(nums) == 0 {
			return Battle{}, false
		}
		num = nums[len(nums)-1]
	}
	b, ok := p.battles[num]
	if !ok {
		return Battle{}, false
	}
	return b.clone(), true
}

func (p *Priva) lastEntry(t EntryType) (Entry, bool) {
	for i := len(p.log) - 1; i >= 0; i-- {
		if p.log[i].Type == t {
			return p.log[i], true
		}
	}
	return Entry{}, false
}

func (p *Priva) Report(locale string) Report {
	r := Report{
		Name:      rules.DisplayName(string(p.kind), locale),
		Type:      p.kind,
		Status:    p.status,
		InBattle:  p.inBattle,
		Standings: p.Standings(),
	}
	if b, ok := p.RecentBattle(); ok {
		r.RecentBattle = &b
	}
	if e, ok := p.lastEntry(EntryStarted); ok {
		r.StartTime = utils.Ptr(e.Time)
	}
	if e, ok := p.lastEntry(EntryEnded); ok {
		r.EndTime = utils.Ptr(e.Time)
	}
	return r
}

// Rules returns the rule description of the variant in the closest
// available locale.
func (p *Priva) Rules(locale string) string {
	text, _ := rules.Text(p.kind.rulesPackage(), locale)
	return text
}

func (p *Priva) String() string {
	return fmt.Sprintf("<%s %d, %d Players, %d Battles>",
		rules.DisplayName(string(p.kind), rules.DefaultLocale), int(p.status), len(p.roster.order), len(p.battles))
}
