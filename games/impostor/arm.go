package impostor

import (
	"fmt"
	"time"
)

// ArmTimeout is how long a live-mode elimination stays armed.
const ArmTimeout = 3 * time.Second

// Scheduler runs f once after d and returns a function that cancels it.
// f must not be run before Scheduler returns.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type armed struct {
	target int
	seq    uint64
	stop   func() bool
}

func (g *Game) selectTarget(target int) error {
	if _, ok := g.state.(Playing); !ok {
		return ErrIllegalAction
	}
	if g.settings.Mode != ModeLive {
		return ErrWrongMode
	}
	if target < 0 || target >= len(g.players) || !g.players[target].Alive {
		return fmt.Errorf("%w: player %d is not in play", ErrInvalidTarget, target)
	}

	if g.armed != nil && g.armed.target == target {
		g.disarm()
		g.eliminate([]int{target})
		if winner, ok := Winner(g.players); ok {
			g.transition(GameOver{Winner: winner})
		}
		return nil
	}

	g.arm(target)
	return nil
}

func (g *Game) arm(target int) {
	g.disarm()

	g.armSeq++
	seq := g.armSeq
	a := &armed{target: target, seq: seq}
	g.armed = a
	a.stop = g.schedule(g.armTimeout, func() {
		g.expire(seq)
	})
}

func (g *Game) disarm() {
	if g.armed == nil {
		return
	}
	if g.armed.stop != nil {
		g.armed.stop()
	}
	g.armed = nil
}

// expire runs on the scheduler. It is a no-op unless the arming it was
// scheduled for is still the current one.
func (g *Game) expire(seq uint64) {
	g.mu.Lock()
	current := g.armed != nil && g.armed.seq == seq
	if current {
		g.armed = nil
	}
	g.mu.Unlock()

	if current {
		g.notify()
	}
}

func (g *Game) resurrect(target int) error {
	switch g.state.(type) {
	case Playing, GameOver:
	default:
		return ErrIllegalAction
	}
	if g.settings.Mode != ModeLive {
		return ErrWrongMode
	}
	if target < 0 || target >= len(g.players) || g.players[target].Alive {
		return fmt.Errorf("%w: player %d is not eliminated", ErrInvalidTarget, target)
	}

	g.players[target].Alive = true
	return nil
}

// showWords opens or closes the word check panel. It stays as set across
// rounds until the game is restarted or replayed.
func (g *Game) showWords(show bool) error {
	if _, ok := g.state.(Playing); !ok {
		return ErrIllegalAction
	}
	if g.settings.Mode != ModeLive {
		return ErrWrongMode
	}
	if g.wordsShown == show {
		return ErrIllegalAction
	}

	g.wordsShown = show
	return nil
}
