package impostor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// Scenario is the pair of related words dealt for one game.
type Scenario struct {
	Category    string `json:"category"`
	CommonWord  string `json:"common_word"`
	SimilarWord string `json:"similar_word"`
}

// WordFor returns the word a player holding role r is shown.
func (s Scenario) WordFor(r Role) string {
	switch r {
	case RoleGood:
		return s.CommonWord
	case RoleHallucinated:
		return s.SimilarWord
	default:
		return ""
	}
}

// Provider supplies scenarios. Implementations may block and may fail.
type Provider interface {
	Fetch(ctx context.Context) (Scenario, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Scenario, error)

func (f ProviderFunc) Fetch(ctx context.Context) (Scenario, error) {
	return f(ctx)
}

// TableProvider draws scenarios from the built-in word table.
type TableProvider struct {
	// Latency is waited before every draw.
	Latency time.Duration

	// FailureRate is the probability in [0,1] that a draw fails.
	FailureRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

func NewTableProvider(r *rand.Rand, latency time.Duration, failureRate float64) *TableProvider {
	if r == nil {
		r = NewRand()
	}

	return &TableProvider{
		Latency:     latency,
		FailureRate: failureRate,
		rand:        r,
	}
}

func (p *TableProvider) Fetch(ctx context.Context) (Scenario, error) {
	if p.Latency > 0 {
		t := time.NewTimer(p.Latency)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return Scenario{}, ctx.Err()
		case <-t.C:
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailureRate > 0 && p.rand.Float64() < p.FailureRate {
		return Scenario{}, fmt.Errorf("word table temporarily unavailable")
	}

	pair := wordPairs[p.rand.IntN(len(wordPairs))]

	s := Scenario{
		Category:    pair.category,
		CommonWord:  pair.a,
		SimilarWord: pair.b,
	}
	if p.rand.IntN(2) == 1 {
		s.CommonWord, s.SimilarWord = s.SimilarWord, s.CommonWord
	}

	return s, nil
}

// Guard wraps p so that a second Fetch while one is pending fails fast with
// ErrFetchInFlight.
func Guard(p Provider) Provider {
	return &guardedProvider{next: p}
}

type guardedProvider struct {
	next    Provider
	pending atomic.Bool
}

func (g *guardedProvider) Fetch(ctx context.Context) (Scenario, error) {
	if !g.pending.CompareAndSwap(false, true) {
		return Scenario{}, ErrFetchInFlight
	}
	defer g.pending.Store(false)

	return g.next.Fetch(ctx)
}
