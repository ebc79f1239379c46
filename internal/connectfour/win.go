package connectfour

import "github.com/rocketscienceinc/connectfour-backend/internal/entity"

const winLength = 4

type shape struct {
	dRow    int
	dColumn int
}

// shapes are tested per origin in this order.
var shapes = [...]shape{
	{dRow: 0, dColumn: 1},
	{dRow: 1, dColumn: 0},
	{dRow: 1, dColumn: 1},
	{dRow: 1, dColumn: -1},
}

// cells returns the coordinates of the shape anchored at the origin, bounds unchecked.
func (that shape) cells(row, column int) [winLength]entity.Position {
	var cells [winLength]entity.Position
	for step := range winLength {
		cells[step] = entity.Position{Row: row + step*that.dRow, Column: column + step*that.dColumn}
	}
	return cells
}

// CheckForWin reports whether the player to move owns four aligned cells.
func (that *Engine) CheckForWin() bool {
	_, won := findLine(that.game.Board, that.game.CurrentMark())
	return won
}

// findLine scans every origin row-major and returns the first complete shape owned by mark.
func findLine(board *entity.Board, mark entity.Mark) ([]entity.Position, bool) {
	for row := range board.Height {
		for column := range board.Width {
			for _, s := range shapes {
				cells := s.cells(row, column)
				if ownsAll(board, cells, mark) {
					return cells[:], true
				}
			}
		}
	}

	return nil, false
}

func ownsAll(board *entity.Board, cells [winLength]entity.Position, mark entity.Mark) bool {
	for _, cell := range cells {
		if !board.InBounds(cell.Row, cell.Column) || board.Cells[cell.Row][cell.Column] != mark {
			return false
		}
	}
	return true
}
