package priva

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandings(t *testing.T) {
	p := newStartedCommon(t, 4)
	_, err := p.StartBattle([]string{"p0", "p1"}, []string{"p2", "p3"})
	require.NoError(t, err)
	_, err = p.EndBattle(SideB)
	require.NoError(t, err)
	_, err = p.StartBattle([]string{"p0", "p2"}, []string{"p1", "p3"})
	require.NoError(t, err)
	_, err = p.EndBattle(SideA)
	require.NoError(t, err)

	var order []string
	for _, pl := range p.Standings() {
		order = append(order, pl.Name)
	}
	// p2 2-0, p0 and p3 1-1 in admission order, p1 0-2.
	assert.Equal(t, []string{"p2", "p0", "p3", "p1"}, order)
}

func TestReport(t *testing.T) {
	names := playerNames(8)

	t.Run("ready", func(t *testing.T) {
		r := NewCommon(testOptions()...).Report("en")
		assert.Equal(t, "Common", r.Name)
		assert.Equal(t, KindCommon, r.Type)
		assert.Equal(t, StatusReady, r.Status)
		assert.Nil(t, r.RecentBattle)
		assert.Nil(t, r.StartTime)
		assert.Nil(t, r.EndTime)
	})

	t.Run("during battle", func(t *testing.T) {
		p := newStartedCommon(t, 8)
		e, err := p.StartBattle(names[:4], names[4:])
		require.NoError(t, err)

		r := p.Report("zh_CN")
		assert.Equal(t, "普通", r.Name)
		assert.True(t, r.InBattle)
		require.NotNil(t, r.RecentBattle)
		assert.Equal(t, 1, r.RecentBattle.Num)
		assert.Equal(t, e.Time, r.RecentBattle.StartedAt)
		require.NotNil(t, r.StartTime)
		assert.Equal(t, p.Logs(0)[0].Time, *r.StartTime)
	})

	t.Run("byes as recorded", func(t *testing.T) {
		p := newStartedCommon(t, 10)
		_, err := p.StartBattle(names[:4], names[4:])
		require.NoError(t, err)
		_, err = p.EndBattle(SideB)
		require.NoError(t, err)
		_, err = p.RemovePlayers([]string{"p9"})
		require.NoError(t, err)
		_, err = p.AddPlayers([]string{"late"})
		require.NoError(t, err)

		r := p.Report("en")
		require.NotNil(t, r.RecentBattle)
		assert.Equal(t, []string{"p8", "p9"}, r.RecentBattle.Byes)
	})

	t.Run("over", func(t *testing.T) {
		p := newStartedCommon(t, 8)
		for range 2 {
			_, err := p.StartBattle(names[:4], names[4:])
			require.NoError(t, err)
			_, err = p.EndBattle(SideA)
			require.NoError(t, err)
		}
		end := p.End()

		r := p.Report("en")
		assert.Equal(t, StatusOver, r.Status)
		require.NotNil(t, r.RecentBattle)
		assert.Equal(t, 2, r.RecentBattle.Num)
		require.NotNil(t, r.EndTime)
		assert.Equal(t, end.Time, *r.EndTime)
	})

	t.Run("win goal", func(t *testing.T) {
		n := newStartedNWins(t, 2, 8)
		r := n.Report("en")
		assert.Equal(t, "N-Wins", r.Name)
		assert.Equal(t, 2, r.WinGoal)
		assert.Nil(t, r.Winners)
	})
}

func TestLogs(t *testing.T) {
	p := newStartedCommon(t, 2)
	_, err := p.RemovePlayers([]string{"p1"})
	require.NoError(t, err)

	all := p.Logs(0)
	require.Len(t, all, 3)
	assert.Equal(t, []EntryType{EntryStarted, EntryPlayersAdded, EntryPlayersRemoved},
		[]EntryType{all[0].Type, all[1].Type, all[2].Type})

	last := p.Logs(2)
	require.Len(t, last, 2)
	assert.Equal(t, EntryPlayersAdded, last[0].Type)
	assert.Len(t, p.Logs(10), 3)

	// Callers get copies.
	last[1].Players.Players[0] = "mallory"
	assert.Equal(t, "p1", p.Logs(1)[0].Players.Players[0])
}

func TestRulesAndString(t *testing.T) {
	n := NewTenWins(testOptions()...)
	assert.Contains(t, n.Rules("en"), "Ten-Wins")
	assert.Contains(t, n.Rules("zh"), "十胜")
	assert.Equal(t, "<Ten-Wins -1, 0 Players, 0 Battles>", n.String())

	p := newStartedCommon(t, 3)
	assert.Equal(t, "<Common 0, 3 Players, 0 Battles>", p.String())
	assert.Contains(t, p.Rules("fr"), "Common priva")
}
