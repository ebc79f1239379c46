package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrColumnFull        = errors.New("column is full")
	ErrColumnOutOfRange  = errors.New("column is out of range")
	ErrDuplicatePlayer   = errors.New("players must be distinct")
	ErrBlankPlayer       = errors.New("player identifier is blank")
	ErrBackgroundColor   = errors.New("player color matches the board background")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrCorruptedGame     = errors.New("game snapshot is corrupted")
	ErrSnapshotNotSaved  = errors.New("move was played but the game could not be saved")
	ErrInvalidColor      = errors.New("not a valid color")
)
