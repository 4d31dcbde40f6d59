package impostor

// Phase names the screen the game is on.
type Phase string

const (
	PhaseSetup        Phase = "SETUP"
	PhaseRegistration Phase = "PLAYER_REGISTRATION"
	PhaseCardReveal   Phase = "CARD_REVEAL"
	PhaseGameReady    Phase = "GAME_READY"
	PhasePlaying      Phase = "PLAYING"
	PhaseVotingIntro  Phase = "VOTING_INTRO"
	PhaseVotingTurn   Phase = "VOTING_TURN"
	PhaseRunoffIntro  Phase = "RUNOFF_INTRO"
	PhaseRoundResults Phase = "ROUND_RESULTS"
	PhaseGameOver     Phase = "GAME_OVER"
)

func (p Phase) String() string {
	return string(p)
}

// State is the current node of the phase graph together with the data that
// only exists in that node.
type State interface {
	Phase() Phase
	isState()
}

type Setup struct{}

// Registration waits for the name of the player in Slot.
type Registration struct {
	Slot int
}

// CardReveal shows the player in Slot their card once Revealed is set.
type CardReveal struct {
	Slot     int
	Revealed bool
}

type GameReady struct{}

type Playing struct{}

// VotingIntro asks for the phone to be handed to Voter.
type VotingIntro struct {
	Voter int
}

// VotingTurn is Voter's secret ballot.
type VotingTurn struct {
	Voter int
}

// RunoffIntro announces a runoff between Candidates.
type RunoffIntro struct {
	Candidates []int
}

// RoundResults shows who was voted out. Eliminated may be empty.
type RoundResults struct {
	Eliminated []int
}

type GameOver struct {
	Winner Role
}

func (Setup) Phase() Phase        { return PhaseSetup }
func (Registration) Phase() Phase { return PhaseRegistration }
func (CardReveal) Phase() Phase   { return PhaseCardReveal }
func (GameReady) Phase() Phase    { return PhaseGameReady }
func (Playing) Phase() Phase      { return PhasePlaying }
func (VotingIntro) Phase() Phase  { return PhaseVotingIntro }
func (VotingTurn) Phase() Phase   { return PhaseVotingTurn }
func (RunoffIntro) Phase() Phase  { return PhaseRunoffIntro }
func (RoundResults) Phase() Phase { return PhaseRoundResults }
func (GameOver) Phase() Phase     { return PhaseGameOver }

func (Setup) isState()        {}
func (Registration) isState() {}
func (CardReveal) isState()   {}
func (GameReady) isState()    {}
func (Playing) isState()      {}
func (VotingIntro) isState()  {}
func (VotingTurn) isState()   {}
func (RunoffIntro) isState()  {}
func (RoundResults) isState() {}
func (GameOver) isState()     {}
