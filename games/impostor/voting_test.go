package impostor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fivePlayers() []Player {
	return roster(RoleImpostor, RoleHallucinated, RoleGood, RoleGood, RoleGood)
}

func TestResolveOrdinaryClearWinner(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{0: 3, 1: 1, 2: 1}, 1)

	assert.Equal(t, []int{0}, out.eliminated)
	assert.Empty(t, out.runoff)
}

func TestResolveOrdinaryBoundaryTie(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{0: 2, 1: 2, 2: 0}, 1)

	assert.Empty(t, out.eliminated)
	assert.Equal(t, []int{0, 1}, out.runoff)
}

func TestResolveOrdinaryTieIncludesEveryoneAtTheCount(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{0: 2, 1: 1, 2: 1, 4: 1}, 2)

	assert.Empty(t, out.eliminated)
	assert.Equal(t, []int{1, 2, 4}, out.runoff)
}

func TestResolveOrdinaryIgnoresTiesAboveCutoff(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{1: 2, 3: 2, 4: 1}, 3)

	assert.Empty(t, out.runoff)
	assert.Equal(t, []int{1, 3, 4}, out.eliminated)
}

func TestResolveOrdinaryStopsAtZeroVotes(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{2: 5}, 2)

	assert.Empty(t, out.runoff)
	assert.Equal(t, []int{2}, out.eliminated)
}

func TestResolveOrdinaryZeroTailIsNotATie(t *testing.T) {
	out := resolveOrdinary(fivePlayers(), Tally{}, 1)

	assert.Empty(t, out.runoff)
	assert.Empty(t, out.eliminated)
}

func TestResolveOrdinarySkipsDeadPlayers(t *testing.T) {
	players := kill(fivePlayers(), 0)
	out := resolveOrdinary(players, Tally{0: 4, 3: 1}, 1)

	assert.Equal(t, []int{3}, out.eliminated)
}

func TestResolveOrdinarySeatsBeyondAliveCount(t *testing.T) {
	players := kill(fivePlayers(), 0, 1, 2)
	out := resolveOrdinary(players, Tally{3: 1, 4: 1}, 3)

	assert.Empty(t, out.runoff)
	assert.Equal(t, []int{3, 4}, out.eliminated)
}

func TestResolveRunoff(t *testing.T) {
	assert.Equal(t, []int{0}, resolveRunoff([]int{0, 1}, Tally{0: 1, 1: 0}))
	assert.Empty(t, resolveRunoff([]int{0, 1}, Tally{0: 1, 1: 1}))
	assert.Empty(t, resolveRunoff([]int{0, 1}, Tally{}))
	assert.Equal(t, []int{2}, resolveRunoff([]int{0, 1, 2}, Tally{0: 1, 1: 1, 2: 2}))
}

func TestNextVoterSkipsDeadAndRunoffCandidates(t *testing.T) {
	players := kill(fivePlayers(), 1)
	runoff := []int{0, 3}

	id, ok := nextVoter(players, runoff, -1)
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	id, ok = nextVoter(players, runoff, 2)
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	_, ok = nextVoter(players, runoff, 4)
	assert.False(t, ok)
}

func TestCheckBallot(t *testing.T) {
	players := kill(fivePlayers(), 4)

	assert.ErrorIs(t, checkBallot(players, nil, 2, 2), ErrSelfVote)
	assert.ErrorIs(t, checkBallot(players, nil, 2, 4), ErrInvalidTarget)
	assert.ErrorIs(t, checkBallot(players, nil, 2, 9), ErrInvalidTarget)
	assert.NoError(t, checkBallot(players, nil, 2, 0))

	runoff := []int{0, 1}
	assert.ErrorIs(t, checkBallot(players, runoff, 2, 3), ErrInvalidTarget)
	assert.NoError(t, checkBallot(players, runoff, 2, 1))
	assert.ErrorIs(t, checkBallot(players, runoff, 0, 0), ErrSelfVote)
}

func TestBallotTargets(t *testing.T) {
	players := kill(fivePlayers(), 4)

	assert.Equal(t, []int{0, 1, 3}, ballotTargets(players, nil, 2))
	assert.Equal(t, []int{0, 1}, ballotTargets(players, []int{0, 1}, 3))
}
