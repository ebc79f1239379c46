package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// Settings are the game setup values the manager applies to every new game.
type Settings struct {
	Height     int
	Width      int
	Background string
}

// GameManager runs games whose snapshots live in a repository between moves.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	settings Settings
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, settings Settings) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		settings: settings,
	}
}

// StartGame validates the players and stores a fresh game for them.
func (that *GameManager) StartGame(ctx context.Context, first, second entity.Player) (*connectfour.Engine, error) {
	if err := entity.ValidatePlayers(first, second, that.settings.Background); err != nil {
		return nil, fmt.Errorf("invalid players: %w", err)
	}

	engine, err := connectfour.New(first, second,
		connectfour.WithID(uuid.NewString()),
		connectfour.WithDimensions(that.settings.Height, that.settings.Width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	game := engine.State()
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	that.logger.Info("game started", "game_id", game.ID, "first", first.Color, "second", second.Color)

	return engine, nil
}

// ResumeGame loads a stored game that is still being played.
func (that *GameManager) ResumeGame(ctx context.Context, id string) (*connectfour.Engine, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := connectfour.Restore(game)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	that.logger.Debug("game resumed", "game_id", id, "moves", game.Moves)

	return engine, nil
}

// DropPiece applies a move to the stored game. A finished game is removed from storage.
func (that *GameManager) DropPiece(ctx context.Context, id string, column int) (connectfour.MoveResult, error) {
	engine, err := that.ResumeGame(ctx, id)
	if err != nil {
		return connectfour.MoveResult{Outcome: connectfour.OutcomeRejected, Row: -1, Column: column}, err
	}

	return that.Play(ctx, engine, column)
}

// Play applies a move to an engine obtained from StartGame or ResumeGame and syncs its snapshot.
// ErrSnapshotNotSaved comes with an applied result: the board changed, only storage is behind.
func (that *GameManager) Play(ctx context.Context, engine *connectfour.Engine, column int) (connectfour.MoveResult, error) {
	id := engine.State().ID
	log := that.logger.With("game_id", id, "column", column)

	if engine.IsGameOver() {
		return connectfour.MoveResult{Outcome: connectfour.OutcomeRejected, Row: -1, Column: column}, apperror.ErrGameFinished
	}

	result, err := engine.DropPiece(column)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return result, fmt.Errorf("failed to drop piece: %w", err)
	}

	if result.IsTerminal() {
		log.Info("game finished", "outcome", result.Outcome, "winner", winnerColor(result))
		that.deleteGame(ctx, id)

		return result, nil
	}

	// the move stands even when the snapshot is lost; callers get the applied result
	if err = that.gameRepo.CreateOrUpdate(ctx, engine.State()); err != nil {
		log.Error("failed to update game", "error", err)
		return result, fmt.Errorf("%w: %w", apperror.ErrSnapshotNotSaved, err)
	}

	return result, nil
}

// Restart empties the board of a game and stores it under the same ID.
func (that *GameManager) Restart(ctx context.Context, engine *connectfour.Engine) error {
	engine.Reset()

	game := engine.State()
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to save restarted game: %w", err)
	}

	that.logger.Info("game restarted", "game_id", game.ID)

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, id string) {
	log := that.logger.With("method", "deleteGame", "game_id", id)

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Debug("game deleted")
}

func winnerColor(result connectfour.MoveResult) string {
	if result.Winner == nil {
		return ""
	}
	return result.Winner.Color
}
