package connectfour

import "github.com/rocketscienceinc/connectfour-backend/internal/entity"

// PlacedEvent is emitted after every successful placement.
type PlacedEvent struct {
	Row    int
	Column int
	Player entity.Player
}

// OverEvent is emitted once, when the game reaches a terminal state.
type OverEvent struct {
	Outcome Outcome
	Winner  *entity.Player
	Line    []entity.Position
}

// Listener receives state changes from the engine. Renderers subscribe through it
// instead of reading engine internals.
type Listener interface {
	OnPiecePlaced(event PlacedEvent)
	OnGameOver(event OverEvent)
	// OnReset follows Reset; the board is empty again.
	OnReset()
}
