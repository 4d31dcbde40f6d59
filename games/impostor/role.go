package impostor

import (
	"fmt"
	"math/rand/v2"
)

const (
	MinPlayers = 4
	MaxPlayers = 12
)

// Role is the secret identity dealt to a player.
type Role string

const (
	RoleGood         Role = "GOOD"
	RoleHallucinated Role = "HALLUCINATED"
	RoleImpostor     Role = "IMPOSTOR"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsImpostor() bool {
	return r == RoleImpostor
}

func (r Role) IsHallucinated() bool {
	return r == RoleHallucinated
}

// HallucinatedCount returns how many hallucinated players a game of total players gets.
func HallucinatedCount(total int) int {
	switch {
	case total >= 10:
		return 3
	case total >= 7:
		return 2
	default:
		return 1
	}
}

// AssignRoles deals one impostor, HallucinatedCount(total) hallucinated players and
// good players for the rest, in random order.
func AssignRoles(r *rand.Rand, total int) ([]Role, error) {
	if total < MinPlayers || total > MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrPlayerCount, total)
	}

	roles := make([]Role, 0, total)
	roles = append(roles, RoleImpostor)
	for range HallucinatedCount(total) {
		roles = append(roles, RoleHallucinated)
	}
	for len(roles) < total {
		roles = append(roles, RoleGood)
	}

	// Fisher-Yates
	for i := len(roles) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}

	return roles, nil
}
