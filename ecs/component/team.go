package component

// TeamID identifies a team. TeamNull is the neutral team.
type TeamID uint8

const (
	TeamNull TeamID = 0
	MaxTeams        = 32
)

// TeamTable records which teams attack which.
type TeamTable struct {
	hates [MaxTeams][MaxTeams]bool
}

// NewTeamTable returns a table where every pair of distinct non-neutral teams
// hate each other and nobody hates the neutral team.
func NewTeamTable() *TeamTable {
	t := &TeamTable{}
	for a := 1; a < MaxTeams; a++ {
		for b := 1; b < MaxTeams; b++ {
			t.hates[a][b] = a != b
		}
	}
	return t
}

func (t *TeamTable) Hates(a, b TeamID) bool {
	if t == nil || int(a) >= MaxTeams || int(b) >= MaxTeams {
		return false
	}
	return t.hates[a][b]
}

func (t *TeamTable) SetHates(a, b TeamID, hates bool) {
	if t == nil || int(a) >= MaxTeams || int(b) >= MaxTeams {
		return
	}
	t.hates[a][b] = hates
}
