package impostor

import "strings"

// Player is one registration slot in a game.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Word  string `json:"word,omitempty"`
	Alive bool   `json:"alive"`
}

// normalizeName trims a submitted name and reports whether anything is left.
func normalizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != ""
}

// bindPlayer deals the role for slot id and the scenario word that goes with it.
func bindPlayer(id int, name string, role Role, s Scenario) Player {
	return Player{
		ID:    id,
		Name:  name,
		Role:  role,
		Word:  s.WordFor(role),
		Alive: true,
	}
}

// bindRoster rebinds every existing name to a fresh role list, reviving everyone.
func bindRoster(names []string, roles []Role, s Scenario) []Player {
	players := make([]Player, len(names))
	for i, name := range names {
		players[i] = bindPlayer(i, name, roles[i], s)
	}
	return players
}
