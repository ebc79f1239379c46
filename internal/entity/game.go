package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusTied       = "tied"
)

const (
	DefaultHeight = 6
	DefaultWidth  = 7
)

type Game struct {
	ID      string    `json:"id"`
	Board   *Board    `json:"board"`
	Players [2]Player `json:"players"`
	Current int       `json:"current"`
	Status  string    `json:"status"`
	Winner  Mark      `json:"winner"`
	Moves   int       `json:"moves"`
}

func NewGame(id string, first, second Player, height, width int) *Game {
	return &Game{
		ID:      id,
		Board:   NewBoard(height, width),
		Players: [2]Player{first, second},
		Current: 0,
		Status:  StatusInProgress,
		Winner:  Empty,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusTied
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) CurrentMark() Mark {
	return MarkOf(that.Current)
}

func (that *Game) CurrentPlayer() Player {
	return that.Players[that.Current]
}

// PlayerOf resolves a mark to its player; Empty resolves to false.
func (that *Game) PlayerOf(mark Mark) (Player, bool) {
	index := mark.PlayerIndex()
	if index < 0 {
		return Player{}, false
	}
	return that.Players[index], true
}

// WinnerPlayer returns the winning player once the game is won.
func (that *Game) WinnerPlayer() (Player, bool) {
	if that.Status != StatusWon {
		return Player{}, false
	}
	return that.PlayerOf(that.Winner)
}

// SwitchTurn hands the move to the other player.
func (that *Game) SwitchTurn() {
	that.Current = 1 - that.Current
}

func (that *Game) Clone() *Game {
	clone := *that
	if that.Board != nil {
		clone.Board = that.Board.Clone()
	}
	return &clone
}

// Validate checks a game that came from outside the engine, e.g. a stored snapshot.
func (that *Game) Validate() error {
	if that.Board == nil || !that.Board.IsWellFormed() {
		return fmt.Errorf("%w: malformed board", apperror.ErrCorruptedGame)
	}

	if that.Players[0].Same(that.Players[1]) {
		return apperror.ErrDuplicatePlayer
	}

	if that.Current != 0 && that.Current != 1 {
		return fmt.Errorf("%w: current player index %d", apperror.ErrCorruptedGame, that.Current)
	}

	switch that.Status {
	case StatusInProgress, StatusTied:
		if that.Winner != Empty {
			return fmt.Errorf("%w: winner set for status %s", apperror.ErrCorruptedGame, that.Status)
		}
	case StatusWon:
		if that.Winner.PlayerIndex() < 0 {
			return fmt.Errorf("%w: won game without winner", apperror.ErrCorruptedGame)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrCorruptedGame, that.Status)
	}

	return that.validatePieces()
}

// validatePieces checks that the board can be reached by alternating drops from an empty board.
func (that *Game) validatePieces() error {
	if cell, ok := that.Board.FloatingPiece(); ok {
		return fmt.Errorf("%w: piece at row %d, column %d floats", apperror.ErrCorruptedGame, cell.Row, cell.Column)
	}

	first, second := that.Board.Count(FirstMark), that.Board.Count(SecondMark)
	if first+second != that.Moves {
		return fmt.Errorf("%w: %d pieces for %d moves", apperror.ErrCorruptedGame, first+second, that.Moves)
	}

	// the turn does not switch after the last move of a finished game
	lead := that.Current
	if that.IsFinished() {
		lead = 1 - that.Current
	}

	if first-second != lead {
		return fmt.Errorf("%w: %d first and %d second pieces with player %d to move",
			apperror.ErrCorruptedGame, first, second, that.Current)
	}

	switch that.Status {
	case StatusInProgress:
		if that.Board.IsFull() {
			return fmt.Errorf("%w: game in progress on a full board", apperror.ErrCorruptedGame)
		}
	case StatusTied:
		if !that.Board.IsFull() {
			return fmt.Errorf("%w: tie on a board with empty cells", apperror.ErrCorruptedGame)
		}
	case StatusWon:
		if that.Winner != that.CurrentMark() {
			return fmt.Errorf("%w: winner did not make the last move", apperror.ErrCorruptedGame)
		}
	}

	return nil
}
