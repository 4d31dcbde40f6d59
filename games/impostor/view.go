package impostor

import "slices"

// PlayerView is a player as shown on the shared screen. Role is filled once
// the player is out; word stays empty until the game is over.
type PlayerView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Alive bool   `json:"alive"`
	Role  Role   `json:"role,omitempty"`
	Word  string `json:"word,omitempty"`
}

// Card is the secret shown to a single player during the reveal walk.
type Card struct {
	Name     string `json:"name"`
	Impostor bool   `json:"impostor"`
	Word     string `json:"word,omitempty"`
}

// AliveCounts is how many living players hold each role.
type AliveCounts struct {
	Good         int `json:"good"`
	Hallucinated int `json:"hallucinated"`
	Impostor     int `json:"impostor"`
}

// Words is the pair of words shown in the live-mode check panel.
type Words struct {
	Common  string `json:"common"`
	Similar string `json:"similar"`
}

// View is a snapshot of everything the current screen may display.
type View struct {
	Phase            Phase        `json:"phase"`
	Mode             Mode         `json:"mode,omitempty"`
	EliminationCount int          `json:"elimination_count,omitempty"`
	TotalPlayers     int          `json:"total_players,omitempty"`
	Players          []PlayerView `json:"players"`

	Slot     *int  `json:"slot,omitempty"`
	Revealed bool  `json:"revealed,omitempty"`
	Card     *Card `json:"card,omitempty"`

	Starter *int `json:"starter,omitempty"`

	AliveCounts *AliveCounts `json:"alive_counts,omitempty"`
	Words       *Words       `json:"words,omitempty"`

	Voter   *int  `json:"voter,omitempty"`
	Targets []int `json:"targets,omitempty"`
	Runoff  []int `json:"runoff,omitempty"`
	Votes   Tally `json:"votes,omitempty"`

	Armed          *int  `json:"armed,omitempty"`
	LastEliminated []int `json:"last_eliminated,omitempty"`

	Winner   Role      `json:"winner,omitempty"`
	Scenario *Scenario `json:"scenario,omitempty"`

	Error string `json:"error,omitempty"`
}

// View is what every screen following the game may see. It never carries a
// revealed card.
func (g *Game) View() View {
	return g.snapshot(false)
}

// HolderView is View plus the revealed card, for the phone that revealed it.
func (g *Game) HolderView() View {
	return g.snapshot(true)
}

func (g *Game) snapshot(withCard bool) View {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, over := g.state.(GameOver)

	v := View{
		Phase:            g.state.Phase(),
		Mode:             g.settings.Mode,
		EliminationCount: g.settings.EliminationCount,
		TotalPlayers:     g.settings.Players,
		Players:          make([]PlayerView, 0, len(g.players)),
		LastEliminated:   slices.Clone(g.lastEliminated),
	}

	for _, p := range g.players {
		pv := PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Alive: p.Alive,
		}
		if over || !p.Alive {
			pv.Role = p.Role
		}
		if over {
			pv.Word = p.Word
		}
		v.Players = append(v.Players, pv)
	}

	if g.err != nil {
		v.Error = g.err.Error()
	}

	if g.armed != nil {
		target := g.armed.target
		v.Armed = &target
	}

	switch s := g.state.(type) {
	case Registration:
		v.Slot = &s.Slot
	case CardReveal:
		v.Slot = &s.Slot
		v.Revealed = s.Revealed
		if s.Revealed && withCard {
			p := g.players[s.Slot]
			v.Card = &Card{
				Name:     p.Name,
				Impostor: p.Role.IsImpostor(),
				Word:     p.Word,
			}
		}
	case GameReady:
		starter := g.starter
		v.Starter = &starter
	case Playing:
		if g.settings.Mode == ModeLive {
			counts := aliveCounts(g.players)
			v.AliveCounts = &counts
			if g.wordsShown {
				v.Words = &Words{Common: g.scenario.CommonWord, Similar: g.scenario.SimilarWord}
			}
		}
	case VotingIntro:
		v.Voter = &s.Voter
		v.Runoff = slices.Clone(g.runoff)
	case VotingTurn:
		v.Voter = &s.Voter
		v.Runoff = slices.Clone(g.runoff)
		v.Targets = ballotTargets(g.players, g.runoff, s.Voter)
	case RunoffIntro:
		v.Runoff = slices.Clone(s.Candidates)
		v.Votes = g.copyTally()
	case RoundResults:
		v.Votes = g.copyTally()
	case GameOver:
		v.Winner = s.Winner
		v.Votes = g.copyTally()
		scenario := g.scenario
		v.Scenario = &scenario
	}

	return v
}

func (g *Game) copyTally() Tally {
	if len(g.tally) == 0 {
		return nil
	}
	t := make(Tally, len(g.tally))
	for id, n := range g.tally {
		t[id] = n
	}
	return t
}

func aliveCounts(players []Player) AliveCounts {
	var c AliveCounts
	for _, p := range players {
		if !p.Alive {
			continue
		}
		switch p.Role {
		case RoleGood:
			c.Good++
		case RoleHallucinated:
			c.Hallucinated++
		case RoleImpostor:
			c.Impostor++
		}
	}
	return c
}
