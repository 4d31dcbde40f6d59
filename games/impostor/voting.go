package impostor

import (
	"cmp"
	"fmt"
	"slices"
)

// Tally counts the votes received by each player ID in the current round.
type Tally map[int]int

type standing struct {
	id    int
	votes int
}

// rank orders ids by descending vote count. Equal counts keep slot order.
func rank(ids []int, t Tally) []standing {
	ranked := make([]standing, 0, len(ids))
	for _, id := range ids {
		ranked = append(ranked, standing{id: id, votes: t[id]})
	}

	slices.SortStableFunc(ranked, func(a, b standing) int {
		return cmp.Compare(b.votes, a.votes)
	})

	return ranked
}

func aliveIDs(players []Player) []int {
	ids := make([]int, 0, len(players))
	for _, p := range players {
		if p.Alive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// roundOutcome is the result of counting an ordinary round. At most one of the
// fields is non-empty.
type roundOutcome struct {
	eliminated []int
	runoff     []int
}

// resolveOrdinary fills up to seats elimination seats from the tally. A tie
// straddling the last seat sends every player holding that count to a runoff.
// Ties above the last seat do not matter.
func resolveOrdinary(players []Player, t Tally, seats int) roundOutcome {
	ranked := rank(aliveIDs(players), t)
	if len(ranked) == 0 {
		return roundOutcome{}
	}

	cutoff := min(seats, len(ranked)) - 1

	if ranked[cutoff].votes > 0 && cutoff+1 < len(ranked) && ranked[cutoff+1].votes == ranked[cutoff].votes {
		tied := ranked[cutoff].votes

		var runoff []int
		for _, s := range ranked {
			if s.votes == tied {
				runoff = append(runoff, s.id)
			}
		}
		slices.Sort(runoff)

		return roundOutcome{runoff: runoff}
	}

	var out roundOutcome
	for _, s := range ranked[:cutoff+1] {
		if s.votes == 0 {
			break
		}
		out.eliminated = append(out.eliminated, s.id)
	}

	return out
}

// resolveRunoff returns the single candidate holding the strict maximum, or
// nothing when the top is zero or shared.
func resolveRunoff(candidates []int, t Tally) []int {
	ranked := rank(candidates, t)
	if len(ranked) == 0 || ranked[0].votes == 0 {
		return nil
	}
	if len(ranked) > 1 && ranked[1].votes == ranked[0].votes {
		return nil
	}
	return []int{ranked[0].id}
}

// canVote reports whether p may cast a ballot this round.
func canVote(p Player, runoff []int) bool {
	return p.Alive && !slices.Contains(runoff, p.ID)
}

// nextVoter returns the first eligible voter whose slot is after the given one.
// Pass -1 to start from the top of the roster.
func nextVoter(players []Player, runoff []int, after int) (int, bool) {
	for _, p := range players {
		if p.ID > after && canVote(p, runoff) {
			return p.ID, true
		}
	}
	return 0, false
}

// checkBallot validates a vote from voter for target.
func checkBallot(players []Player, runoff []int, voter, target int) error {
	if voter == target {
		return ErrSelfVote
	}
	if target < 0 || target >= len(players) || !players[target].Alive {
		return fmt.Errorf("%w: player %d is not in play", ErrInvalidTarget, target)
	}
	if len(runoff) > 0 && !slices.Contains(runoff, target) {
		return fmt.Errorf("%w: player %d is not in the runoff", ErrInvalidTarget, target)
	}
	return nil
}

// ballotTargets lists every player voter may vote for.
func ballotTargets(players []Player, runoff []int, voter int) []int {
	var ids []int
	for _, p := range players {
		if checkBallot(players, runoff, voter, p.ID) == nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
