package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/AdamBeresnev/privas/internal/priva"
)

// simulation plays a priva from start to end with generated players.
type simulation struct {
	Kind    priva.Kind
	Goal    int
	Players int
	Battles int
	Seed    uint64
	Outcome string
}

func (s simulation) run() (priva.Instance, error) {
	var args []int
	if s.Kind == priva.KindNWins {
		args = []int{s.Goal}
	}
	var opts []priva.Option
	if s.Seed != 0 {
		opts = append(opts, priva.WithSeed(s.Seed))
	}
	inst, err := priva.New(s.Kind, args, opts...)
	if err != nil {
		return nil, err
	}
	pick, err := s.outcomes()
	if err != nil {
		return nil, err
	}

	if _, err := inst.Start(); err != nil {
		return nil, err
	}
	names := make([]string, s.Players)
	for i := range names {
		names[i] = fmt.Sprintf("player-%d", i+1)
	}
	if _, err := inst.AddPlayers(names); err != nil {
		return nil, err
	}

	for n := 0; n < s.Battles; n++ {
		teamA, teamB := explicitTeams(inst)
		if _, err := inst.StartBattle(teamA, teamB); err != nil {
			return nil, fmt.Errorf("battle %d: %w", n+1, err)
		}
		if _, err := inst.EndBattle(pick(n)); err != nil {
			return nil, fmt.Errorf("battle %d: %w", n+1, err)
		}
		if len(inst.Report("").Winners) > 0 {
			break
		}
	}
	inst.End()
	return inst, nil
}

func (s simulation) outcomes() (func(n int) priva.Side, error) {
	switch s.Outcome {
	case "A", "B":
		side := priva.Side(s.Outcome)
		return func(int) priva.Side { return side }, nil
	case "alternate":
		return func(n int) priva.Side {
			if n%2 == 0 {
				return priva.SideA
			}
			return priva.SideB
		}, nil
	case "random", "":
		seed := s.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, seed))
		return func(int) priva.Side {
			if rng.IntN(2) == 0 {
				return priva.SideA
			}
			return priva.SideB
		}, nil
	}
	return nil, fmt.Errorf("unknown outcome %q", s.Outcome)
}

// explicitTeams splits the active players of a common priva in two, leaving
// at most two of them out. Matchmaking privas get nil teams and draw their own.
func explicitTeams(inst priva.Instance) ([]string, []string) {
	if inst.Kind() != priva.KindCommon {
		return nil, nil
	}
	active := inst.ActivePlayers()
	n := min(len(active), 8)
	var teamA, teamB []string
	for i, pl := range active[:n] {
		if i%2 == 0 {
			teamA = append(teamA, pl.Name)
		} else {
			teamB = append(teamB, pl.Name)
		}
	}
	return teamA, teamB
}
