package priva

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// Teams is a pairing chosen by a Matchmaker.
type Teams struct {
	A []string
	B []string
}

// Matchmaker picks the two teams of a battle from the active players,
// given in admission order.
type Matchmaker interface {
	Match(players []Player, rng *rand.Rand) (Teams, error)
}

// Explicit leaves team selection to the caller.
type Explicit struct{}

func (Explicit) Match([]Player, *rand.Rand) (Teams, error) {
	return Teams{}, newError(CodeInvalidCombination, "teams must be given for this priva")
}

// battleSize is the number of players in an automatically paired battle.
const battleSize = 8

// Seed positions of the two teams once the lineup is sorted by strength.
var (
	seedsA = [...]int{0, 7, 3, 4}
	seedsB = [...]int{1, 6, 2, 5}
)

// Balanced plays eight of the active players four against four. Players
// beyond eight sit the battle out, then the rest are ranked by strength
// and dealt to the teams so both get a similar mix of strong and weak
// players. Ties are broken with the random source.
type Balanced struct{}

func (Balanced) Match(players []Player, rng *rand.Rand) (Teams, error) {
	if len(players) < battleSize {
		return Teams{}, newError(CodeInsufficientPlayers, "not enough players: %d active, %d required", len(players), battleSize)
	}
	benched := pickByes(players, len(players)-battleSize, rng)
	lineup := make([]Player, 0, battleSize)
	for _, pl := range players {
		if !benched[pl.Name] {
			lineup = append(lineup, pl)
		}
	}
	seed(lineup, rng)

	teams := Teams{A: make([]string, 0, len(seedsA)), B: make([]string, 0, len(seedsB))}
	for _, i := range seedsA {
		teams.A = append(teams.A, lineup[i].Name)
	}
	for _, i := range seedsB {
		teams.B = append(teams.B, lineup[i].Name)
	}
	return teams, nil
}

// compareByeRank orders players by how much they deserve to play: fewer
// byes first, then more battles played, then more wins.
func compareByeRank(a, b Player) int {
	return cmp.Or(
		cmp.Compare(a.Byes, b.Byes),
		cmp.Compare(b.Played(), a.Played()),
		cmp.Compare(b.Wins, a.Wins),
	)
}

// pickByes chooses excess players from the bottom of the bye ranking. A
// group of equally ranked players that does not fit whole is sampled.
func pickByes(players []Player, excess int, rng *rand.Rand) map[string]bool {
	benched := make(map[string]bool, max(excess, 0))
	if excess <= 0 {
		return benched
	}
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, compareByeRank)

	for end := len(ranked); excess > 0 && end > 0; {
		start := end - 1
		for start > 0 && compareByeRank(ranked[start-1], ranked[end-1]) == 0 {
			start--
		}
		group := ranked[start:end]
		if len(group) <= excess {
			for _, pl := range group {
				benched[pl.Name] = true
			}
			excess -= len(group)
		} else {
			for _, i := range rng.Perm(len(group))[:excess] {
				benched[group[i].Name] = true
			}
			excess = 0
		}
		end = start
	}
	return benched
}

func compareStrength(a, b Player) int {
	return cmp.Or(
		cmp.Compare(b.Wins, a.Wins),
		cmp.Compare(a.Losses, b.Losses),
		cmp.Compare(a.Byes, b.Byes),
	)
}

// seed sorts the lineup strongest first and shuffles each run of players
// with identical records in place.
func seed(lineup []Player, rng *rand.Rand) {
	slices.SortStableFunc(lineup, compareStrength)
	for i := 0; i < len(lineup); {
		j := i + 1
		for j < len(lineup) && compareStrength(lineup[i], lineup[j]) == 0 {
			j++
		}
		for k := i; k < j-1; k++ {
			r := k + rng.IntN(j-k)
			lineup[k], lineup[r] = lineup[r], lineup[k]
		}
		i = j
	}
}
