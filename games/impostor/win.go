package impostor

// Winner reports which side has won given the current roster, if any.
// Only living players are considered.
func Winner(players []Player) (Role, bool) {
	var (
		alive        int
		impostor     bool
		hallucinated int
	)

	for _, p := range players {
		if !p.Alive {
			continue
		}
		alive++
		switch p.Role {
		case RoleImpostor:
			impostor = true
		case RoleHallucinated:
			hallucinated++
		}
	}

	switch {
	case impostor && alive <= 2:
		// The only other survivor, if any, decides it.
		if hallucinated > 0 {
			return RoleHallucinated, true
		}
		return RoleImpostor, true
	case !impostor && alive == 2 && hallucinated > 0:
		return RoleHallucinated, true
	case !impostor && hallucinated == 0:
		return RoleGood, true
	}

	return "", false
}
