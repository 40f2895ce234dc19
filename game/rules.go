package game

import "fmt"

// Rules holds the constants a game is built with. They do not change once
// the game has started.
type Rules struct {
	BoardRadius    int `yaml:"board_radius"`
	RingsPerPlayer int `yaml:"rings_per_player"`
	MaxJumpSteps   int `yaml:"max_jump_steps"`
	WinScore       int `yaml:"win_score"`
	LineLength     int `yaml:"line_length"`
}

func NewStandardRules() *Rules {
	return &Rules{
		BoardRadius:    5,
		RingsPerPlayer: 5,
		MaxJumpSteps:   10,
		WinScore:       3,
		LineLength:     5,
	}
}

func (r Rules) Validate() error {
	if r.BoardRadius < 1 {
		return fmt.Errorf("board radius must be positive, got %d", r.BoardRadius)
	}
	if r.RingsPerPlayer < 1 {
		return fmt.Errorf("rings per player must be positive, got %d", r.RingsPerPlayer)
	}
	cells := len(ValidCoords(r.BoardRadius))
	if 2*r.RingsPerPlayer > cells {
		return fmt.Errorf("%d rings do not fit on %d cells", 2*r.RingsPerPlayer, cells)
	}
	if r.MaxJumpSteps < 2 {
		return fmt.Errorf("max jump steps must be at least 2, got %d", r.MaxJumpSteps)
	}
	if r.WinScore < 1 || r.WinScore > r.RingsPerPlayer {
		return fmt.Errorf("win score must be between 1 and %d, got %d", r.RingsPerPlayer, r.WinScore)
	}
	if r.LineLength < 2 || r.LineLength > 2*r.BoardRadius+1 {
		return fmt.Errorf("line length must be between 2 and %d, got %d", 2*r.BoardRadius+1, r.LineLength)
	}
	return nil
}
