package views

import (
	"slices"

	"github.com/AdamBeresnev/privas/internal/priva"
)

type StandingRow struct {
	Rank   int
	Player priva.Player
	Winner bool
}

type BattleView struct {
	Num     int
	TeamA   []string
	TeamB   []string
	Outcome priva.Side
	Byes    []string
}

type ReportData struct {
	Report priva.Report
	Rows   []StandingRow
	Battle *BattleView
}

// PrepareReportData ranks the standings, with equal records sharing a
// rank.
func PrepareReportData(report priva.Report) ReportData {
	data := ReportData{Report: report}

	for i, pl := range report.Standings {
		rank := i + 1
		if i > 0 {
			prev := report.Standings[i-1]
			if prev.Wins == pl.Wins && prev.Losses == pl.Losses {
				rank = data.Rows[i-1].Rank
			}
		}
		data.Rows = append(data.Rows, StandingRow{
			Rank:   rank,
			Player: pl,
			Winner: slices.Contains(report.Winners, pl.Name),
		})
	}

	if b := report.RecentBattle; b != nil {
		data.Battle = &BattleView{Num: b.Num, TeamA: b.TeamA, TeamB: b.TeamB, Outcome: b.Outcome, Byes: b.Byes}
	}
	return data
}
