package impostor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTargetTwiceEliminates(t *testing.T) {
	g, sched := newTestGame(t)
	playing(t, g, ModeLive, 1, 6)

	apply(t, g, SelectTarget{Target: 2})
	armed, ok := g.Armed()
	require.True(t, ok)
	assert.Equal(t, 2, armed)
	assert.True(t, g.Players()[2].Alive, "arming alone does not eliminate")
	assert.Equal(t, ArmTimeout, sched.timer(0).d)

	apply(t, g, SelectTarget{Target: 2})
	_, ok = g.Armed()
	assert.False(t, ok)
	assert.True(t, sched.timer(0).stopped, "timer canceled on kill")
	assert.False(t, g.Players()[2].Alive)
	assert.Equal(t, []int{2}, g.LastEliminated())
	assert.Equal(t, Playing{}, g.State(), "one death out of six decides nothing")
}

func TestArmExpires(t *testing.T) {
	changes := 0
	g, sched := newTestGame(t, WithOnChange(func() { changes++ }))
	playing(t, g, ModeLive, 1, 5)

	apply(t, g, SelectTarget{Target: 1})
	before := changes
	sched.fire(0)

	_, ok := g.Armed()
	assert.False(t, ok)
	assert.Equal(t, before+1, changes, "expiry is reported")

	apply(t, g, SelectTarget{Target: 1})
	assert.True(t, g.Players()[1].Alive, "select after expiry arms again")
	armed, ok := g.Armed()
	require.True(t, ok)
	assert.Equal(t, 1, armed)
}

func TestRearmOnOtherTarget(t *testing.T) {
	changes := 0
	g, sched := newTestGame(t, WithOnChange(func() { changes++ }))
	playing(t, g, ModeLive, 1, 5)

	apply(t, g, SelectTarget{Target: 1})
	apply(t, g, SelectTarget{Target: 3})
	assert.True(t, sched.timer(0).stopped)

	armed, ok := g.Armed()
	require.True(t, ok)
	assert.Equal(t, 3, armed)

	// A stale callback for the first arming must not touch the new one.
	before := changes
	sched.fire(0)
	armed, ok = g.Armed()
	require.True(t, ok)
	assert.Equal(t, 3, armed)
	assert.Equal(t, before, changes)

	apply(t, g, SelectTarget{Target: 3})
	assert.False(t, g.Players()[3].Alive)
	assert.True(t, g.Players()[1].Alive)

	sched.fire(1)
	_, ok = g.Armed()
	assert.False(t, ok)
}

func TestLiveKillDecidesGame(t *testing.T) {
	g, _ := newTestGame(t)
	playing(t, g, ModeLive, 1, 4)

	hallucinated := idOf(g.Players(), RoleHallucinated)
	impostor := idOf(g.Players(), RoleImpostor)

	apply(t, g, SelectTarget{Target: hallucinated})
	apply(t, g, SelectTarget{Target: hallucinated})
	assert.Equal(t, Playing{}, g.State())

	apply(t, g, SelectTarget{Target: impostor})
	apply(t, g, SelectTarget{Target: impostor})
	assert.Equal(t, GameOver{Winner: RoleGood}, g.State())

	assert.ErrorIs(t, g.Apply(context.Background(), SelectTarget{Target: hallucinated}), ErrIllegalAction)
}

func TestSelectTargetValidation(t *testing.T) {
	g, _ := newTestGame(t)
	ctx := context.Background()
	playing(t, g, ModeLive, 1, 5)

	assert.ErrorIs(t, g.Apply(ctx, SelectTarget{Target: 9}), ErrInvalidTarget)
	assert.ErrorIs(t, g.Apply(ctx, SelectTarget{Target: -1}), ErrInvalidTarget)

	apply(t, g, SelectTarget{Target: 0})
	apply(t, g, SelectTarget{Target: 0})
	assert.ErrorIs(t, g.Apply(ctx, SelectTarget{Target: 0}), ErrInvalidTarget, "already out")

	app, _ := newTestGame(t)
	playing(t, app, ModeApp, 1, 5)
	assert.ErrorIs(t, app.Apply(ctx, SelectTarget{Target: 0}), ErrWrongMode)
	assert.ErrorIs(t, app.Apply(ctx, Resurrect{Target: 0}), ErrWrongMode)
}

func TestResurrectSkipsWinCheck(t *testing.T) {
	g, _ := newTestGame(t)
	ctx := context.Background()
	playing(t, g, ModeLive, 1, 4)

	hallucinated := idOf(g.Players(), RoleHallucinated)
	impostor := idOf(g.Players(), RoleImpostor)

	assert.ErrorIs(t, g.Apply(ctx, Resurrect{Target: impostor}), ErrInvalidTarget, "still alive")

	for _, id := range []int{hallucinated, impostor} {
		apply(t, g, SelectTarget{Target: id})
		apply(t, g, SelectTarget{Target: id})
	}
	require.Equal(t, GameOver{Winner: RoleGood}, g.State())

	apply(t, g, Resurrect{Target: impostor})
	assert.True(t, g.Players()[impostor].Alive)
	assert.Equal(t, GameOver{Winner: RoleGood}, g.State(), "a decided game stays decided")

	apply(t, g, Restart{})
	playing(t, g, ModeLive, 1, 4)
	good := idOf(g.Players(), RoleGood)

	apply(t, g, SelectTarget{Target: good})
	apply(t, g, SelectTarget{Target: good})
	apply(t, g, Resurrect{Target: good})
	assert.True(t, g.Players()[good].Alive)
	assert.Equal(t, Playing{}, g.State())
}

func TestRestartCancelsArm(t *testing.T) {
	g, sched := newTestGame(t)
	playing(t, g, ModeLive, 1, 5)

	apply(t, g, SelectTarget{Target: 4})
	apply(t, g, Restart{})

	assert.True(t, sched.timer(0).stopped)
	_, ok := g.Armed()
	assert.False(t, ok)

	sched.fire(0)
	assert.Equal(t, Setup{}, g.State())
}

func TestArmExpiresWithRealTimer(t *testing.T) {
	var changes atomic.Int32
	g := New(fixedProvider(),
		WithRand(seeded(2)),
		WithArmTimeout(10*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	playing(t, g, ModeLive, 1, 4)

	before := changes.Load()
	apply(t, g, SelectTarget{Target: 0})

	require.Eventually(t, func() bool {
		_, ok := g.Armed()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return changes.Load() == before+2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, g.Players()[0].Alive)
}

func TestArmedTargetShownInView(t *testing.T) {
	g, _ := newTestGame(t)
	playing(t, g, ModeLive, 1, 4)

	assert.Nil(t, g.View().Armed)
	apply(t, g, SelectTarget{Target: 2})
	v := g.View()
	require.NotNil(t, v.Armed)
	assert.Equal(t, 2, *v.Armed)
}
