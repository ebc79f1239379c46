package entity

import (
	"fmt"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

// DefaultBackground is the board color a player piece must not blend into.
const DefaultBackground = "skyblue"

// Player is an opaque participant identifier; in practice the display color of its pieces.
type Player struct {
	Color string `json:"color"`
}

func NewPlayer(color string) Player {
	return Player{Color: strings.TrimSpace(color)}
}

// Same reports whether two players would be indistinguishable on the board.
func (that Player) Same(other Player) bool {
	return strings.EqualFold(that.Color, other.Color)
}

func (that Player) IsBlank() bool {
	return strings.TrimSpace(that.Color) == ""
}

// IsValidColor reports whether the identifier parses as a CSS color.
func (that Player) IsValidColor() bool {
	_, err := csscolorparser.Parse(that.Color)
	return err == nil
}

func (that Player) String() string {
	return that.Color
}

// ValidatePlayers checks a pair of players produced by game setup: colors must be valid CSS colors,
// distinct from each other and from the board background.
func ValidatePlayers(first, second Player, background string) error {
	if first.IsBlank() || second.IsBlank() {
		return apperror.ErrBlankPlayer
	}

	if background != "" {
		bg := Player{Color: background}
		if first.Same(bg) || second.Same(bg) {
			return apperror.ErrBackgroundColor
		}
	}

	if first.Same(second) {
		return apperror.ErrDuplicatePlayer
	}

	firstValid, secondValid := first.IsValidColor(), second.IsValidColor()

	switch {
	case !firstValid && !secondValid:
		return fmt.Errorf("%w: %q and %q", apperror.ErrInvalidColor, first.Color, second.Color)
	case !firstValid:
		return fmt.Errorf("%w: first player %q", apperror.ErrInvalidColor, first.Color)
	case !secondValid:
		return fmt.Errorf("%w: second player %q", apperror.ErrInvalidColor, second.Color)
	}

	return nil
}
