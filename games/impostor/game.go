package impostor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// Settings are fixed for the lifetime of a game, including replays.
type Settings struct {
	Mode             Mode `json:"mode"`
	Players          int  `json:"players"`
	EliminationCount int  `json:"elimination_count"`
}

// Game is one pass-the-phone session. It is safe for concurrent use, but
// transitions are applied one at a time.
type Game struct {
	mu sync.Mutex

	provider   Provider
	rand       *rand.Rand
	schedule   Scheduler
	armTimeout time.Duration
	onChange   func()

	state    State
	settings Settings
	scenario Scenario
	roles    []Role
	players  []Player

	tally          Tally
	runoff         []int
	lastEliminated []int

	armed  *armed
	armSeq uint64

	// starter is the player suggested to speak first.
	starter    int
	wordsShown bool

	// gen changes whenever the game is restarted or replayed, so that a
	// scenario fetch started before that is thrown away.
	gen uint64
	err error
}

type Option func(*Game)

func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rand = r
	}
}

func WithScheduler(s Scheduler) Option {
	return func(g *Game) {
		g.schedule = s
	}
}

func WithArmTimeout(d time.Duration) Option {
	return func(g *Game) {
		g.armTimeout = d
	}
}

// WithOnChange registers f to be called after every state change. It is
// called without the game lock held.
func WithOnChange(f func()) Option {
	return func(g *Game) {
		g.onChange = f
	}
}

func New(p Provider, opts ...Option) *Game {
	g := &Game{
		provider:   p,
		schedule:   afterFunc,
		armTimeout: ArmTimeout,
		state:      Setup{},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.rand == nil {
		g.rand = NewRand()
	}

	return g
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) Settings() Settings {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.settings
}

func (g *Game) Scenario() Scenario {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.scenario
}

func (g *Game) Players() []Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.players)
}

func (g *Game) Tally() Tally {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t := g.copyTally(); t != nil {
		return t
	}
	return Tally{}
}

func (g *Game) Runoff() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.runoff)
}

func (g *Game) LastEliminated() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.lastEliminated)
}

// Armed returns the player currently armed for a live-mode elimination.
func (g *Game) Armed() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.armed == nil {
		return 0, false
	}
	return g.armed.target, true
}

// Err returns the last scenario failure, cleared by the next successful draw.
func (g *Game) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.err
}

// Apply feeds one user action to the game. Actions that are not legal in the
// current phase return ErrIllegalAction and leave the game untouched.
func (g *Game) Apply(ctx context.Context, a Action) error {
	var err error

	switch a := a.(type) {
	case Start:
		err = g.start(ctx, a)
	case Replay:
		err = g.replay(ctx)
	default:
		g.mu.Lock()
		err = g.applyLocked(a)
		g.mu.Unlock()
	}

	if err == nil || errors.Is(err, ErrScenarioUnavailable) {
		g.notify()
	}

	return err
}

func (g *Game) notify() {
	if g.onChange != nil {
		g.onChange()
	}
}

func (g *Game) applyLocked(a Action) error {
	switch a := a.(type) {
	case SubmitName:
		return g.submitName(a.Name)
	case RevealCard:
		return g.revealCard(true)
	case HideCard:
		return g.revealCard(false)
	case ConfirmCard:
		return g.confirmCard()
	case Begin:
		if _, ok := g.state.(GameReady); !ok {
			return ErrIllegalAction
		}
		g.transition(Playing{})
		return nil
	case StartVoting:
		return g.startVoting()
	case ConfirmVoter:
		s, ok := g.state.(VotingIntro)
		if !ok {
			return ErrIllegalAction
		}
		g.transition(VotingTurn{Voter: s.Voter})
		return nil
	case CastVote:
		return g.castVote(a.Target)
	case ConfirmRunoff:
		if _, ok := g.state.(RunoffIntro); !ok {
			return ErrIllegalAction
		}
		g.tally = Tally{}
		g.openBallot()
		return nil
	case Continue:
		if _, ok := g.state.(RoundResults); !ok {
			return ErrIllegalAction
		}
		g.transition(Playing{})
		return nil
	case SelectTarget:
		return g.selectTarget(a.Target)
	case Resurrect:
		return g.resurrect(a.Target)
	case RevealWords:
		return g.showWords(true)
	case HideWords:
		return g.showWords(false)
	case Undo:
		return g.undo()
	case Restart:
		g.reset()
		return nil
	}

	return fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

// transition moves to s. Leaving PLAYING always drops an armed elimination.
func (g *Game) transition(s State) {
	if _, ok := s.(Playing); !ok {
		g.disarm()
	}
	g.state = s
}

func (g *Game) reset() {
	g.disarm()
	g.gen++
	g.state = Setup{}
	g.settings = Settings{}
	g.scenario = Scenario{}
	g.roles = nil
	g.players = nil
	g.tally = nil
	g.runoff = nil
	g.lastEliminated = nil
	g.starter = 0
	g.wordsShown = false
	g.err = nil
}

func validateStart(a Start) (Settings, []string, error) {
	s := Settings{
		Mode:             a.Mode,
		Players:          a.Players,
		EliminationCount: a.EliminationCount,
	}

	if s.Mode != ModeLive && s.Mode != ModeApp {
		return Settings{}, nil, fmt.Errorf("%w: %q", ErrWrongMode, s.Mode)
	}

	var names []string
	if len(a.Names) > 0 {
		for _, raw := range a.Names {
			name, ok := normalizeName(raw)
			if !ok {
				return Settings{}, nil, ErrInvalidRegistration
			}
			names = append(names, name)
		}
		s.Players = len(names)
	}

	if s.Players < MinPlayers || s.Players > MaxPlayers {
		return Settings{}, nil, fmt.Errorf("%w: %d", ErrPlayerCount, s.Players)
	}

	if s.EliminationCount == 0 {
		s.EliminationCount = 1
	}
	if s.EliminationCount < 1 || s.EliminationCount > 3 {
		return Settings{}, nil, fmt.Errorf("%w: %d", ErrEliminationCount, s.EliminationCount)
	}

	return s, names, nil
}

// draw fetches a scenario without holding the lock. It returns the generation
// observed before the fetch so the caller can detect a restart in between.
func (g *Game) draw(ctx context.Context, legal func(State) bool) (Scenario, uint64, error) {
	g.mu.Lock()
	if !legal(g.state) {
		g.mu.Unlock()
		return Scenario{}, 0, ErrIllegalAction
	}
	gen := g.gen
	g.mu.Unlock()

	s, err := g.provider.Fetch(ctx)
	return s, gen, err
}

func (g *Game) fetchFailed(err error) error {
	if errors.Is(err, ErrFetchInFlight) {
		return err
	}
	g.err = fmt.Errorf("%w: %w", ErrScenarioUnavailable, err)
	return g.err
}

func (g *Game) start(ctx context.Context, a Start) error {
	settings, names, err := validateStart(a)
	if err != nil {
		return err
	}

	scenario, gen, err := g.draw(ctx, func(s State) bool {
		_, ok := s.(Setup)
		return ok
	})
	if errors.Is(err, ErrIllegalAction) {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.(Setup); !ok || g.gen != gen {
		return ErrIllegalAction
	}
	if err != nil {
		return g.fetchFailed(err)
	}

	roles, err := AssignRoles(g.rand, settings.Players)
	if err != nil {
		return err
	}

	g.err = nil
	g.settings = settings
	g.scenario = scenario
	g.roles = roles

	if names != nil {
		g.players = bindRoster(names, roles, scenario)
		g.transition(CardReveal{Slot: 0})
		return nil
	}

	g.players = make([]Player, 0, settings.Players)
	g.transition(Registration{Slot: 0})
	return nil
}

func (g *Game) replay(ctx context.Context) error {
	scenario, gen, err := g.draw(ctx, func(s State) bool {
		_, ok := s.(GameOver)
		return ok
	})
	if errors.Is(err, ErrIllegalAction) {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.(GameOver); !ok || g.gen != gen {
		return ErrIllegalAction
	}
	if err != nil {
		return g.fetchFailed(err)
	}

	roles, err := AssignRoles(g.rand, len(g.players))
	if err != nil {
		return err
	}

	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}

	g.gen++
	g.err = nil
	g.scenario = scenario
	g.roles = roles
	g.players = bindRoster(names, roles, scenario)
	g.tally = nil
	g.runoff = nil
	g.lastEliminated = nil
	g.wordsShown = false
	g.transition(CardReveal{Slot: 0})
	return nil
}

func (g *Game) submitName(raw string) error {
	s, ok := g.state.(Registration)
	if !ok {
		return ErrIllegalAction
	}

	name, ok := normalizeName(raw)
	if !ok {
		return ErrInvalidRegistration
	}

	g.players = append(g.players, bindPlayer(s.Slot, name, g.roles[s.Slot], g.scenario))
	g.transition(CardReveal{Slot: s.Slot})
	return nil
}

func (g *Game) revealCard(show bool) error {
	s, ok := g.state.(CardReveal)
	if !ok || s.Revealed == show {
		return ErrIllegalAction
	}

	g.transition(CardReveal{Slot: s.Slot, Revealed: show})
	return nil
}

func (g *Game) confirmCard() error {
	s, ok := g.state.(CardReveal)
	if !ok || !s.Revealed {
		return ErrIllegalAction
	}

	next := s.Slot + 1
	switch {
	case next >= g.settings.Players:
		g.starter = g.rand.IntN(len(g.players))
		g.transition(GameReady{})
	case next < len(g.players):
		// Name already known: pre-seeded group or replay.
		g.transition(CardReveal{Slot: next})
	default:
		g.transition(Registration{Slot: next})
	}
	return nil
}

func (g *Game) startVoting() error {
	if _, ok := g.state.(Playing); !ok {
		return ErrIllegalAction
	}
	if g.settings.Mode != ModeApp {
		return ErrWrongMode
	}

	g.tally = Tally{}
	g.runoff = nil
	g.openBallot()
	return nil
}

// openBallot hands the phone to the first eligible voter, or counts an empty
// round straight away if nobody may vote.
func (g *Game) openBallot() {
	if id, ok := nextVoter(g.players, g.runoff, -1); ok {
		g.transition(VotingIntro{Voter: id})
		return
	}
	g.closeBallot()
}

func (g *Game) castVote(target int) error {
	s, ok := g.state.(VotingTurn)
	if !ok {
		return ErrIllegalAction
	}
	if err := checkBallot(g.players, g.runoff, s.Voter, target); err != nil {
		return err
	}

	g.tally[target]++

	if id, ok := nextVoter(g.players, g.runoff, s.Voter); ok {
		g.transition(VotingIntro{Voter: id})
		return nil
	}
	g.closeBallot()
	return nil
}

func (g *Game) closeBallot() {
	if len(g.runoff) > 0 {
		eliminated := resolveRunoff(g.runoff, g.tally)
		g.runoff = nil
		g.finishRound(eliminated)
		return
	}

	out := resolveOrdinary(g.players, g.tally, g.settings.EliminationCount)
	if len(out.runoff) > 0 {
		g.runoff = out.runoff
		g.transition(RunoffIntro{Candidates: slices.Clone(out.runoff)})
		return
	}
	g.finishRound(out.eliminated)
}

func (g *Game) finishRound(eliminated []int) {
	g.eliminate(eliminated)

	if winner, ok := Winner(g.players); ok {
		g.transition(GameOver{Winner: winner})
		return
	}
	g.transition(RoundResults{Eliminated: slices.Clone(eliminated)})
}

func (g *Game) eliminate(ids []int) {
	for _, id := range ids {
		g.players[id].Alive = false
	}
	g.lastEliminated = slices.Clone(ids)
}

// undo takes back the elimination that ended the game.
func (g *Game) undo() error {
	if _, ok := g.state.(GameOver); !ok {
		return ErrIllegalAction
	}

	for _, id := range g.lastEliminated {
		g.players[id].Alive = true
	}
	g.lastEliminated = nil
	g.transition(Playing{})
	return nil
}
