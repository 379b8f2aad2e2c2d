package priva

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func freshPlayers(n int) []Player {
	players := make([]Player, n)
	for i, name := range playerNames(n) {
		players[i] = Player{Name: name, Active: true}
	}
	return players
}

func assertSplit(t *testing.T, teams Teams, players []Player) {
	t.Helper()
	require.Len(t, teams.A, 4)
	require.Len(t, teams.B, 4)
	seen := make(map[string]bool)
	for _, name := range slices.Concat(teams.A, teams.B) {
		assert.False(t, seen[name], "%s picked twice", name)
		seen[name] = true
		assert.True(t, slices.ContainsFunc(players, func(p Player) bool { return p.Name == name }), "%s is not active", name)
	}
}

func TestExplicitMatch(t *testing.T) {
	_, err := Explicit{}.Match(freshPlayers(8), seededRand(1))
	requireCode(t, err, CodeInvalidCombination)
}

func TestBalancedMatch(t *testing.T) {
	t.Run("seeds by strength", func(t *testing.T) {
		// s0 is the strongest player, s7 the weakest.
		players := make([]Player, 8)
		for i := range players {
			players[i] = Player{Name: "s" + string(rune('0'+i)), Wins: 7 - i, Losses: i, Active: true}
		}
		// Admission order must not matter.
		shuffled := slices.Clone(players)
		slices.Reverse(shuffled)

		teams, err := Balanced{}.Match(shuffled, seededRand(7))
		require.NoError(t, err)
		assert.Equal(t, []string{"s0", "s7", "s3", "s4"}, teams.A)
		assert.Equal(t, []string{"s1", "s6", "s2", "s5"}, teams.B)
	})

	t.Run("eight players means no byes", func(t *testing.T) {
		players := freshPlayers(8)
		teams, err := Balanced{}.Match(players, seededRand(3))
		require.NoError(t, err)
		assertSplit(t, teams, players)
	})

	t.Run("ten players leave two out", func(t *testing.T) {
		players := freshPlayers(10)
		teams, err := Balanced{}.Match(players, seededRand(3))
		require.NoError(t, err)
		assertSplit(t, teams, players)
	})

	t.Run("players with most byes sit out", func(t *testing.T) {
		players := freshPlayers(10)
		players[2].Byes = 1
		players[5].Byes = 1
		teams, err := Balanced{}.Match(players, seededRand(11))
		require.NoError(t, err)
		playing := slices.Concat(teams.A, teams.B)
		assert.NotContains(t, playing, "p2")
		assert.NotContains(t, playing, "p5")
	})

	t.Run("too few players", func(t *testing.T) {
		_, err := Balanced{}.Match(freshPlayers(7), seededRand(1))
		requireCode(t, err, CodeInsufficientPlayers)
	})

	t.Run("equal players are shuffled", func(t *testing.T) {
		players := freshPlayers(8)
		lineups := make(map[string]bool)
		for seed := range uint64(20) {
			teams, err := Balanced{}.Match(players, seededRand(seed))
			require.NoError(t, err)
			lineups[strings.Join(teams.A, ",")] = true
		}
		assert.Greater(t, len(lineups), 1)
	})

	t.Run("same seed same teams", func(t *testing.T) {
		players := freshPlayers(10)
		first, err := Balanced{}.Match(players, seededRand(5))
		require.NoError(t, err)
		second, err := Balanced{}.Match(players, seededRand(5))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestPickByes(t *testing.T) {
	t.Run("fewest battles played sits out first", func(t *testing.T) {
		players := freshPlayers(10)
		for i := range players[:9] {
			players[i].Wins = 1
		}
		benched := pickByes(players, 2, seededRand(9))
		assert.Len(t, benched, 2)
		assert.True(t, benched["p9"])
	})

	t.Run("fewer wins sits out on equal battles", func(t *testing.T) {
		players := freshPlayers(9)
		for i := range players {
			players[i].Losses = 1
		}
		players[0] = Player{Name: "p0", Wins: 1, Active: true}
		players[4] = Player{Name: "p4", Wins: 1, Active: true}
		benched := pickByes(players, 1, seededRand(9))
		assert.Len(t, benched, 1)
		assert.False(t, benched["p0"])
		assert.False(t, benched["p4"])
	})

	t.Run("no excess", func(t *testing.T) {
		assert.Empty(t, pickByes(freshPlayers(8), 0, seededRand(1)))
	})
}

func TestSeedShufflesOnlyWithinGroups(t *testing.T) {
	lineup := []Player{
		{Name: "a", Wins: 2}, {Name: "b", Wins: 2},
		{Name: "c", Wins: 1}, {Name: "d", Wins: 1}, {Name: "e", Wins: 1},
		{Name: "f"}, {Name: "g"}, {Name: "h", Losses: 1},
	}
	for s := range uint64(10) {
		got := slices.Clone(lineup)
		slices.Reverse(got)
		seed(got, seededRand(s))

		names := make([]string, len(got))
		for i, p := range got {
			names[i] = p.Name
		}
		assert.ElementsMatch(t, []string{"a", "b"}, names[:2])
		assert.ElementsMatch(t, []string{"c", "d", "e"}, names[2:5])
		assert.ElementsMatch(t, []string{"f", "g"}, names[5:7])
		assert.Equal(t, "h", names[7])
	}
}

func TestTenWinsScenario(t *testing.T) {
	n := NewTenWins(testOptions()...)
	_, err := n.Start()
	require.NoError(t, err)
	_, err = n.AddPlayers(playerNames(10))
	require.NoError(t, err)

	e, err := n.StartBattle(nil, nil)
	require.NoError(t, err)
	assertSplit(t, Teams{A: e.BattleStart.TeamA, B: e.BattleStart.TeamB}, n.ActivePlayers())
	assert.Len(t, e.BattleStart.Byes, 2)
	for _, name := range e.BattleStart.Byes {
		assert.Equal(t, 1, playerByName(t, n.Players(), name).Byes)
	}

	_, err = n.EndBattle(SideA)
	require.NoError(t, err)
	for _, name := range e.BattleStart.TeamA {
		assert.Equal(t, 1, playerByName(t, n.Players(), name).Wins)
	}
	for _, name := range e.BattleStart.TeamB {
		assert.Equal(t, 1, playerByName(t, n.Players(), name).Losses)
	}

	r := n.Report("en")
	assert.Equal(t, Status(1), r.Status)
	assert.False(t, r.InBattle)
	assert.Equal(t, "Ten-Wins", r.Name)
	assert.Equal(t, 10, r.WinGoal)
	assert.Empty(t, r.Winners)

	// The two players who sat out now rank last on byes and sit out again.
	e2, err := n.StartBattle(nil, nil)
	require.NoError(t, err)
	playing := slices.Concat(e2.BattleStart.TeamA, e2.BattleStart.TeamB)
	for _, name := range e.BattleStart.Byes {
		assert.NotContains(t, playing, name)
	}
}

func TestByesStickWhileRosterIsFull(t *testing.T) {
	n := NewTenWins(WithSeed(7), WithClock(stepClock()))
	_, err := n.Start()
	require.NoError(t, err)
	_, err = n.AddPlayers(playerNames(10))
	require.NoError(t, err)

	var first []string
	for i := range 6 {
		e, err := n.StartBattle(nil, nil)
		require.NoError(t, err)
		byes := slices.Sorted(slices.Values(e.BattleStart.Byes))
		if i == 0 {
			first = byes
		}
		assert.Equal(t, first, byes, "battle %d", i+1)
		_, err = n.EndBattle(SideA)
		require.NoError(t, err)
	}

	for _, name := range first {
		pl := playerByName(t, n.Players(), name)
		assert.Equal(t, 6, pl.Byes)
		assert.Zero(t, pl.Played())
	}

	// They only play again once the roster is down to eight.
	var leaving []string
	for _, pl := range n.ActivePlayers() {
		if len(leaving) < 2 && !slices.Contains(first, pl.Name) {
			leaving = append(leaving, pl.Name)
		}
	}
	_, err = n.RemovePlayers(leaving)
	require.NoError(t, err)
	e, err := n.StartBattle(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, e.BattleStart.Byes)
	playing := slices.Concat(e.BattleStart.TeamA, e.BattleStart.TeamB)
	for _, name := range first {
		assert.Contains(t, playing, name)
	}
}

func TestNWinsNeedsEightPlayers(t *testing.T) {
	n := newStartedNWins(t, 3, 7)
	_, err := n.StartBattle(nil, nil)
	requireCode(t, err, CodeInsufficientPlayers)

	_, err = n.AddPlayers([]string{"p7"})
	require.NoError(t, err)
	e, err := n.StartBattle(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, e.BattleStart.Byes)
}

func TestNewNWinsThreshold(t *testing.T) {
	_, err := NewNWins(1)
	requireCode(t, err, CodeInvalidThreshold)

	n, err := NewNWins(2)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Goal())
	assert.Equal(t, []int{2}, n.Args())
}
