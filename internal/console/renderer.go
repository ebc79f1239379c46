package console

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const emptySymbol = '.'

// Renderer draws the board as text. It mirrors the board from placement events only.
type Renderer struct {
	out     io.Writer
	cells   [][]rune
	symbols map[string]rune
}

func NewRenderer(out io.Writer, height, width int, first, second entity.Player) *Renderer {
	cells := make([][]rune, height)
	for row := range cells {
		cells[row] = []rune(strings.Repeat(string(emptySymbol), width))
	}

	return &Renderer{
		out:     out,
		cells:   cells,
		symbols: symbolsFor(first, second),
	}
}

// Load copies an existing board, e.g. after a game was resumed.
func (that *Renderer) Load(game *entity.Game) {
	for row := range game.Board.Height {
		for column := range game.Board.Width {
			if player, ok := game.PlayerOf(game.Board.At(row, column)); ok {
				that.cells[row][column] = that.symbol(player)
			}
		}
	}
}

func (that *Renderer) OnPiecePlaced(event connectfour.PlacedEvent) {
	that.cells[event.Row][event.Column] = that.symbol(event.Player)
	that.Draw()
}

func (that *Renderer) OnGameOver(event connectfour.OverEvent) {
	for _, cell := range event.Line {
		that.cells[cell.Row][cell.Column] = unicode.ToLower(that.cells[cell.Row][cell.Column])
	}

	if event.Outcome == connectfour.OutcomeWin && event.Winner != nil {
		that.Draw()
		fmt.Fprintf(that.out, "%s wins!\n", event.Winner.Color)
		return
	}

	fmt.Fprintln(that.out, "It's a tie!")
}

func (that *Renderer) OnReset() {
	for row := range that.cells {
		for column := range that.cells[row] {
			that.cells[row][column] = emptySymbol
		}
	}
	fmt.Fprintln(that.out, "New game")
	that.Draw()
}

func (that *Renderer) Draw() {
	var sb strings.Builder

	for column := range that.width() {
		fmt.Fprintf(&sb, " %d", (column+1)%10)
	}
	sb.WriteString("\n")

	for _, row := range that.cells {
		sb.WriteString("|")
		for column, cell := range row {
			if column > 0 {
				sb.WriteString(" ")
			}
			sb.WriteRune(cell)
		}
		sb.WriteString("|\n")
	}

	fmt.Fprint(that.out, sb.String())
}

func (that *Renderer) width() int {
	if len(that.cells) == 0 {
		return 0
	}
	return len(that.cells[0])
}

func (that *Renderer) symbol(player entity.Player) rune {
	if symbol, ok := that.symbols[strings.ToLower(player.Color)]; ok {
		return symbol
	}
	return '?'
}

// symbolsFor uses the first letter of each color, or X and O when those collide.
func symbolsFor(first, second entity.Player) map[string]rune {
	a, b := initial(first), initial(second)
	if a == b || a == emptySymbol || b == emptySymbol {
		a, b = 'X', 'O'
	}

	return map[string]rune{
		strings.ToLower(first.Color):  a,
		strings.ToLower(second.Color): b,
	}
}

func initial(player entity.Player) rune {
	for _, r := range player.Color {
		return unicode.ToUpper(r)
	}
	return emptySymbol
}
