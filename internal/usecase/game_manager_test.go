package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errRedisDown    = errors.New("redis down")
	errGameNotFound = errors.New("game not found")

	red    = entity.NewPlayer("red")
	yellow = entity.NewPlayer("yellow")

	defaultSettings = Settings{
		Height:     entity.DefaultHeight,
		Width:      entity.DefaultWidth,
		Background: entity.DefaultBackground,
	}
)

func newManager(t *testing.T, repo *mockGameRepo) *GameManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGameManager(logger, repo, defaultSettings)
}

// storedGame returns a game in progress after the given columns were played.
func storedGame(t *testing.T, id string, columns ...int) *entity.Game {
	t.Helper()

	engine, err := connectfour.New(red, yellow, connectfour.WithID(id))
	require.NoError(t, err)

	for _, column := range columns {
		_, err = engine.DropPiece(column)
		require.NoError(t, err)
	}

	return engine.State()
}

func TestGameManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a new game with a generated ID", func(t *testing.T) {
		// Given: a repository that accepts the new game
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID != "" && game.Moves == 0 && game.IsInProgress()
		})).Return(nil).Once()

		// When: a game is started
		engine, err := manager.StartGame(ctx, red, yellow)

		// Then: an empty engine with the configured size is returned
		require.NoError(t, err)
		assert.NotEmpty(t, engine.State().ID)
		assert.Equal(t, entity.DefaultHeight, engine.Height())
		assert.Equal(t, entity.DefaultWidth, engine.Width())
		assert.Equal(t, red, engine.CurrentPlayer())
	})

	t.Run("Rejects players with the same color", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		_, err := manager.StartGame(ctx, red, entity.NewPlayer(" Red "))

		require.ErrorIs(t, err, apperror.ErrDuplicatePlayer)
	})

	t.Run("Rejects invalid colors", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		_, err := manager.StartGame(ctx, red, entity.NewPlayer("notacolor"))

		require.ErrorIs(t, err, apperror.ErrInvalidColor)
	})

	t.Run("Rejects the background color", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		_, err := manager.StartGame(ctx, entity.NewPlayer("SkyBlue"), yellow)

		require.ErrorIs(t, err, apperror.ErrBackgroundColor)
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		// Given: a repository that is down
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		// When: a game is started
		_, err := manager.StartGame(ctx, red, yellow)

		// Then: the storage error is wrapped
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_DropPiece(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves the game after a regular move", func(t *testing.T) {
		// Given: a stored game with one piece
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g1").Return(storedGame(t, "g1", 3), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID == "g1" && game.Moves == 2 && game.Current == 0
		})).Return(nil).Once()

		// When: yellow drops into the same column
		result, err := manager.DropPiece(ctx, "g1", 3)

		// Then: the piece stacks and the game continues
		require.NoError(t, err)
		assert.Equal(t, connectfour.OutcomeContinue, result.Outcome)
		assert.Equal(t, 4, result.Row)
	})

	t.Run("Deletes the game after a winning move", func(t *testing.T) {
		// Given: red has three pieces stacked in column 0
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g2").Return(storedGame(t, "g2", 0, 1, 0, 1, 0, 1), nil).Once()
		repo.On("DeleteByID", mock.Anything, "g2").Return(nil).Once()

		// When: red drops the fourth piece
		result, err := manager.DropPiece(ctx, "g2", 0)

		// Then: red wins and the snapshot is removed instead of saved
		require.NoError(t, err)
		assert.Equal(t, connectfour.OutcomeWin, result.Outcome)
		require.NotNil(t, result.Winner)
		assert.Equal(t, red, *result.Winner)
	})

	t.Run("A failed cleanup does not hide the result", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g3").Return(storedGame(t, "g3", 0, 1, 0, 1, 0, 1), nil).Once()
		repo.On("DeleteByID", mock.Anything, "g3").Return(errRedisDown).Once()

		result, err := manager.DropPiece(ctx, "g3", 0)

		require.NoError(t, err)
		assert.Equal(t, connectfour.OutcomeWin, result.Outcome)
	})

	t.Run("Full column is not saved", func(t *testing.T) {
		// Given: column 2 is full
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g4").Return(storedGame(t, "g4", 2, 2, 2, 2, 2, 2), nil).Once()

		// When: a piece is dropped into column 2
		result, err := manager.DropPiece(ctx, "g4", 2)

		// Then: the move is rejected and nothing is written
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, connectfour.OutcomeRejected, result.Outcome)
	})

	t.Run("Unknown game", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "missing").Return(nil, errGameNotFound).Once()

		result, err := manager.DropPiece(ctx, "missing", 0)

		require.ErrorIs(t, err, errGameNotFound)
		assert.Equal(t, connectfour.OutcomeRejected, result.Outcome)
	})

	t.Run("Stored game that is already over", func(t *testing.T) {
		// Given: a snapshot of a game red has already won
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g5").Return(storedGame(t, "g5", 0, 1, 0, 1, 0, 1, 0), nil).Once()

		// When: another move arrives
		_, err := manager.DropPiece(ctx, "g5", 3)

		// Then: the manager reports the game as finished
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGameManager_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("A lost snapshot does not undo the move", func(t *testing.T) {
		// Given: a started game whose next save fails
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		engine, err := manager.StartGame(ctx, red, yellow)
		require.NoError(t, err)

		// When: red plays column 3
		result, err := manager.Play(ctx, engine, 3)

		// Then: the applied result comes back with a not-saved error
		require.ErrorIs(t, err, apperror.ErrSnapshotNotSaved)
		require.ErrorIs(t, err, errRedisDown)
		assert.True(t, result.Applied())
		assert.Equal(t, connectfour.OutcomeContinue, result.Outcome)
		assert.Equal(t, 5, result.Row)

		player, ok := engine.Cell(5, 3)
		require.True(t, ok)
		assert.Equal(t, red, player)
		assert.Equal(t, yellow, engine.CurrentPlayer())
	})
}

func TestGameManager_Restart(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores an empty board under the same ID", func(t *testing.T) {
		// Given: a game red has won
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		engine, err := connectfour.Restore(storedGame(t, "g8", 0, 1, 0, 1, 0, 1, 0))
		require.NoError(t, err)
		require.True(t, engine.IsGameOver())

		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID == "g8" && game.Moves == 0 && game.IsInProgress()
		})).Return(nil).Once()

		// When: the game is restarted
		err = manager.Restart(ctx, engine)

		// Then: red moves first on an empty board
		require.NoError(t, err)
		assert.False(t, engine.IsGameOver())
		assert.Equal(t, red, engine.CurrentPlayer())
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		engine, err := connectfour.Restore(storedGame(t, "g9", 0))
		require.NoError(t, err)

		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		require.ErrorIs(t, manager.Restart(ctx, engine), errRedisDown)
	})
}

func TestGameManager_ResumeGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Restores the stored board", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		repo.On("GetByID", mock.Anything, "g6").Return(storedGame(t, "g6", 4), nil).Once()

		engine, err := manager.ResumeGame(ctx, "g6")

		require.NoError(t, err)
		player, ok := engine.Cell(5, 4)
		require.True(t, ok)
		assert.Equal(t, red, player)
		assert.Equal(t, yellow, engine.CurrentPlayer())
	})

	t.Run("Rejects a corrupted snapshot", func(t *testing.T) {
		repo := newMockGameRepo(t)
		manager := newManager(t, repo)

		game := storedGame(t, "g7")
		game.Status = "paused"
		repo.On("GetByID", mock.Anything, "g7").Return(game, nil).Once()

		_, err := manager.ResumeGame(ctx, "g7")

		require.ErrorIs(t, err, apperror.ErrCorruptedGame)
	})
}
