package game

import "fmt"

// Team identifies one of the two sides of a match
type Team int

const (
	TeamA Team = iota
	TeamB
)

// String returns the string representation of a team
func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "?"
	}
}

// Opponent returns the opposing team
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Seat represents a participant in a match. Seats are created from the
// roster at match construction and never reassigned.
type Seat struct {
	Index int
	ID    string
	Name  string
	Team  Team
}

func (s *Seat) String() string {
	return fmt.Sprintf("%s (team %s)", s.Name, s.Team)
}
