package priva

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return epoch.Add(time.Duration(n) * time.Minute)
	}
}

func testOptions() []Option {
	return []Option{WithSeed(42), WithClock(stepClock())}
}

func playerNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	return names
}

func newStartedCommon(t *testing.T, players int) *Priva {
	t.Helper()
	p := NewCommon(testOptions()...)
	_, err := p.Start()
	require.NoError(t, err)
	if players > 0 {
		_, err = p.AddPlayers(playerNames(players))
		require.NoError(t, err)
	}
	return p
}

func newStartedNWins(t *testing.T, goal, players int) *NWins {
	t.Helper()
	n, err := NewNWins(goal, testOptions()...)
	require.NoError(t, err)
	_, err = n.Start()
	require.NoError(t, err)
	_, err = n.AddPlayers(playerNames(players))
	require.NoError(t, err)
	return n
}

func playerByName(t *testing.T, players []Player, name string) Player {
	t.Helper()
	for _, pl := range players {
		if pl.Name == name {
			return pl
		}
	}
	require.FailNowf(t, "player not found", "no player %q", name)
	return Player{}
}

func requireCode(t *testing.T, err error, code Code) {
	t.Helper()
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, code, perr.Code, "got %v", err)
}
