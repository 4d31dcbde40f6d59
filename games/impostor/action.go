package impostor

// Mode selects how players are eliminated.
type Mode string

const (
	// ModeLive eliminates players by hand after a spoken discussion.
	ModeLive Mode = "live"
	// ModeApp eliminates players through secret ballots on the phone.
	ModeApp Mode = "app"
)

// Action is a user input fed to Game.Apply.
type Action interface {
	isAction()
}

// Start draws a scenario and deals roles. When Names is set the player count
// is taken from it and name entry is skipped.
type Start struct {
	Mode             Mode
	Players          int
	EliminationCount int
	Names            []string
}

type SubmitName struct {
	Name string
}

type RevealCard struct{}

type HideCard struct{}

type ConfirmCard struct{}

type Begin struct{}

type StartVoting struct{}

type ConfirmVoter struct{}

type CastVote struct {
	Target int
}

type ConfirmRunoff struct{}

type Continue struct{}

// SelectTarget arms a live-mode elimination, or performs it when Target is
// already armed.
type SelectTarget struct {
	Target int
}

type Resurrect struct {
	Target int
}

// RevealWords opens the live-mode panel showing both words.
type RevealWords struct{}

type HideWords struct{}

type Undo struct{}

type Replay struct{}

type Restart struct{}

func (Start) isAction()         {}
func (SubmitName) isAction()    {}
func (RevealCard) isAction()    {}
func (HideCard) isAction()      {}
func (ConfirmCard) isAction()   {}
func (Begin) isAction()         {}
func (StartVoting) isAction()   {}
func (ConfirmVoter) isAction()  {}
func (CastVote) isAction()      {}
func (ConfirmRunoff) isAction() {}
func (Continue) isAction()      {}
func (SelectTarget) isAction()  {}
func (Resurrect) isAction()     {}
func (RevealWords) isAction()   {}
func (HideWords) isAction()     {}
func (Undo) isAction()          {}
func (Replay) isAction()        {}
func (Restart) isAction()       {}
