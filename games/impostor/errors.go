package impostor

import "errors"

var (
	ErrScenarioUnavailable = errors.New("scenario unavailable")
	ErrFetchInFlight       = errors.New("scenario fetch already in progress")
	ErrInvalidRegistration = errors.New("player name must not be empty")
	ErrIllegalAction       = errors.New("action not allowed in current phase")
	ErrWrongMode           = errors.New("action not allowed in current mode")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrSelfVote            = errors.New("players cannot vote for themselves")
	ErrPlayerCount         = errors.New("player count out of range")
	ErrEliminationCount    = errors.New("elimination count out of range")
	ErrUnknownAction       = errors.New("unknown action")
)
