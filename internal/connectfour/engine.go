package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeWin      Outcome = "win"
	OutcomeTie      Outcome = "tie"
	OutcomeRejected Outcome = "rejected"
)

// MoveResult describes what a DropPiece call did. Row is -1 when the move was rejected.
type MoveResult struct {
	Outcome Outcome
	Row     int
	Column  int
	Winner  *entity.Player
	Line    []entity.Position
}

func (that MoveResult) Applied() bool {
	return that.Outcome != OutcomeRejected
}

func (that MoveResult) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeTie
}

type options struct {
	id     string
	height int
	width  int
}

type Option func(*options)

func WithDimensions(height, width int) Option {
	return func(o *options) {
		o.height = height
		o.width = width
	}
}

func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// Engine owns a single game. It is not safe for concurrent use; moves are expected
// from one driver in turn order.
type Engine struct {
	game      *entity.Game
	listeners []Listener
}

// New starts a game on an empty board with the first player to move.
// Boards smaller than 4x4 are accepted but can only end in a tie.
func New(first, second entity.Player, opts ...Option) (*Engine, error) {
	o := options{height: entity.DefaultHeight, width: entity.DefaultWidth}
	for _, opt := range opts {
		opt(&o)
	}

	if o.height <= 0 || o.width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", apperror.ErrInvalidDimensions, o.height, o.width)
	}

	if first.Same(second) {
		return nil, fmt.Errorf("%w: both players are %q", apperror.ErrDuplicatePlayer, first.Color)
	}

	return &Engine{game: entity.NewGame(o.id, first, second, o.height, o.width)}, nil
}

// Restore rebuilds an engine around a stored game.
func Restore(game *entity.Game) (*Engine, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: nil game", apperror.ErrCorruptedGame)
	}

	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("can't restore game %s: %w", game.ID, err)
	}

	if err := validateLines(game); err != nil {
		return nil, fmt.Errorf("can't restore game %s: %w", game.ID, err)
	}

	return &Engine{game: game.Clone()}, nil
}

// validateLines checks that four in a row exists exactly when the status says someone won.
func validateLines(game *entity.Game) error {
	_, firstLine := findLine(game.Board, entity.FirstMark)
	_, secondLine := findLine(game.Board, entity.SecondMark)

	switch game.Status {
	case entity.StatusWon:
		winnerLine, loserLine := firstLine, secondLine
		if game.Winner == entity.SecondMark {
			winnerLine, loserLine = secondLine, firstLine
		}
		if !winnerLine || loserLine {
			return fmt.Errorf("%w: winning line does not match the winner", apperror.ErrCorruptedGame)
		}
	default:
		if firstLine || secondLine {
			return fmt.Errorf("%w: four in a row in a game that is %s", apperror.ErrCorruptedGame, game.Status)
		}
	}

	return nil
}

func (that *Engine) Subscribe(listener Listener) {
	that.listeners = append(that.listeners, listener)
}

// DropPiece drops the current player's piece into the column.
// Calls after the game is over are ignored and return a rejected result without an error.
func (that *Engine) DropPiece(column int) (MoveResult, error) {
	rejected := MoveResult{Outcome: OutcomeRejected, Row: -1, Column: column}

	if that.game.IsFinished() {
		return rejected, nil
	}

	board := that.game.Board
	if column < 0 || column >= board.Width {
		return rejected, fmt.Errorf("%w: column %d, width %d", apperror.ErrColumnOutOfRange, column, board.Width)
	}

	row, ok := board.LandingRow(column)
	if !ok {
		return rejected, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	mover := that.game.CurrentPlayer()
	board.Place(row, column, that.game.CurrentMark())
	that.game.Moves++
	that.notifyPlaced(PlacedEvent{Row: row, Column: column, Player: mover})

	result := MoveResult{Row: row, Column: column}

	// a full board can still be a winning move, so the win check goes first
	if line, won := findLine(board, that.game.CurrentMark()); won {
		that.game.Status = entity.StatusWon
		that.game.Winner = that.game.CurrentMark()
		result.Outcome = OutcomeWin
		result.Winner = &mover
		result.Line = line
		that.notifyOver(OverEvent{Outcome: OutcomeWin, Winner: &mover, Line: line})

		return result, nil
	}

	if board.IsFull() {
		that.game.Status = entity.StatusTied
		result.Outcome = OutcomeTie
		that.notifyOver(OverEvent{Outcome: OutcomeTie})

		return result, nil
	}

	that.game.SwitchTurn()
	result.Outcome = OutcomeContinue

	return result, nil
}

// Cell returns the player occupying the cell. Empty and out-of-board cells report false.
func (that *Engine) Cell(row, column int) (entity.Player, bool) {
	return that.game.PlayerOf(that.game.Board.At(row, column))
}

func (that *Engine) IsGameOver() bool {
	return that.game.IsFinished()
}

func (that *Engine) IsBoardFull() bool {
	return that.game.Board.IsFull()
}

func (that *Engine) CurrentPlayer() entity.Player {
	return that.game.CurrentPlayer()
}

func (that *Engine) Height() int {
	return that.game.Board.Height
}

func (that *Engine) Width() int {
	return that.game.Board.Width
}

// State returns a copy of the game; mutating it does not affect the engine.
func (that *Engine) State() *entity.Game {
	return that.game.Clone()
}

// Reset discards the board and starts over with the same players and dimensions.
func (that *Engine) Reset() {
	that.game = entity.NewGame(
		that.game.ID,
		that.game.Players[0],
		that.game.Players[1],
		that.game.Board.Height,
		that.game.Board.Width,
	)

	for _, listener := range that.listeners {
		listener.OnReset()
	}
}

func (that *Engine) notifyPlaced(event PlacedEvent) {
	for _, listener := range that.listeners {
		listener.OnPiecePlaced(event)
	}
}

func (that *Engine) notifyOver(event OverEvent) {
	for _, listener := range that.listeners {
		listener.OnGameOver(event)
	}
}
