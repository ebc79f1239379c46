package entity

// Mark is the content of a board cell: empty or the slot of the player occupying it.
type Mark int8

const (
	Empty Mark = iota
	FirstMark
	SecondMark
)

// MarkOf returns the mark of the player at the given index (0 or 1).
func MarkOf(playerIndex int) Mark {
	return Mark(playerIndex + 1)
}

// PlayerIndex returns the index of the player owning the mark, or -1 for Empty.
func (that Mark) PlayerIndex() int {
	if that != FirstMark && that != SecondMark {
		return -1
	}
	return int(that) - 1
}

type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Board is a Height x Width grid. Row 0 is the top row, pieces fall towards Height-1.
type Board struct {
	Height int      `json:"height"`
	Width  int      `json:"width"`
	Cells  [][]Mark `json:"cells"`
}

func NewBoard(height, width int) *Board {
	cells := make([][]Mark, height)
	for row := range cells {
		cells[row] = make([]Mark, width)
	}

	return &Board{
		Height: height,
		Width:  width,
		Cells:  cells,
	}
}

func (that *Board) InBounds(row, column int) bool {
	return row >= 0 && row < that.Height && column >= 0 && column < that.Width
}

// At returns Empty for coordinates outside the board.
func (that *Board) At(row, column int) Mark {
	if !that.InBounds(row, column) {
		return Empty
	}
	return that.Cells[row][column]
}

func (that *Board) Place(row, column int, mark Mark) {
	that.Cells[row][column] = mark
}

// LandingRow returns the lowest empty row of the column.
func (that *Board) LandingRow(column int) (int, bool) {
	for row := that.Height - 1; row >= 0; row-- {
		if that.Cells[row][column] == Empty {
			return row, true
		}
	}
	return -1, false
}

func (that *Board) IsFull() bool {
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

func (that *Board) Count(mark Mark) int {
	count := 0
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell == mark {
				count++
			}
		}
	}
	return count
}

// FloatingPiece returns the first piece found with an empty cell below it.
func (that *Board) FloatingPiece() (Position, bool) {
	for row := 0; row < that.Height-1; row++ {
		for column := range that.Width {
			if that.Cells[row][column] != Empty && that.Cells[row+1][column] == Empty {
				return Position{Row: row, Column: column}, true
			}
		}
	}
	return Position{}, false
}

func (that *Board) Clone() *Board {
	clone := NewBoard(that.Height, that.Width)
	for row := range that.Cells {
		copy(clone.Cells[row], that.Cells[row])
	}
	return clone
}

// IsWellFormed reports whether the declared size matches the cells and every cell holds a known mark.
func (that *Board) IsWellFormed() bool {
	if that.Height <= 0 || that.Width <= 0 || len(that.Cells) != that.Height {
		return false
	}

	for _, row := range that.Cells {
		if len(row) != that.Width {
			return false
		}
		for _, cell := range row {
			if cell != Empty && cell.PlayerIndex() < 0 {
				return false
			}
		}
	}

	return true
}
