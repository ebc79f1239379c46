package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/console"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

const shutdownGrace = 2 * time.Second

// Session describes one console game.
type Session struct {
	// ResumeID continues a stored game instead of starting a new one.
	ResumeID string
	In       io.Reader
	Out      io.Writer
}

// managedGame routes moves through the game manager so the stored snapshot follows the board.
type managedGame struct {
	*connectfour.Engine

	ctx     context.Context //nolint: containedctx // one console session
	manager *usecase.GameManager
}

func (that managedGame) DropPiece(column int) (connectfour.MoveResult, error) {
	return that.manager.Play(that.ctx, that.Engine, column)
}

func (that managedGame) Restart() error {
	return that.manager.Restart(that.ctx, that.Engine)
}

// RunApp - runs one console game.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config, session Session) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gameRepo, closeRepo, err := newGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	manager := usecase.NewGameManager(logger, gameRepo, usecase.Settings{
		Height:     conf.Board.Height,
		Width:      conf.Board.Width,
		Background: conf.Players.Background,
	})

	engine, err := openGame(ctx, manager, conf, session.ResumeID)
	if err != nil {
		return err
	}

	state := engine.State()
	first, second := state.Players[0], state.Players[1]

	renderer := console.NewRenderer(session.Out, engine.Height(), engine.Width(), first, second)
	renderer.Load(state)
	engine.Subscribe(renderer)

	fmt.Fprintf(session.Out, "Game %s: %s vs %s\n", state.ID, first.Color, second.Color)
	renderer.Draw()

	// reading stdin blocks, so the dispatcher runs aside and a signal can still end the session
	dispatchErrCh := make(chan error, 1)
	go func() {
		dispatcher := console.NewDispatcher(session.In, session.Out)
		dispatchErrCh <- dispatcher.Run(ctx, managedGame{Engine: engine, ctx: ctx, manager: manager})
	}()

	select {
	case err = <-dispatchErrCh:
	case <-ctx.Done():
		err = ctx.Err()
		// a move may be writing its snapshot; give it a moment before the repository closes.
		// A dispatcher still blocked on input is abandoned, it holds no storage calls.
		select {
		case <-dispatchErrCh:
		case <-time.After(shutdownGrace):
			log.Warn("console input still blocked at shutdown")
		}
	}

	switch {
	case err == nil:
		log.Info("game over", "game_id", state.ID)
		return nil
	case errors.Is(err, console.ErrQuit), errors.Is(err, io.EOF):
		log.Info("game left unfinished", "game_id", state.ID, "reason", err)
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Info("Application context canceled, shutting down")
		return nil
	default:
		return fmt.Errorf("console session failed: %w", err)
	}
}

func openGame(ctx context.Context, manager *usecase.GameManager, conf *config.Config, resumeID string) (*connectfour.Engine, error) {
	if resumeID != "" {
		engine, err := manager.ResumeGame(ctx, resumeID)
		if err != nil {
			return nil, fmt.Errorf("could not resume game %s: %w", resumeID, err)
		}
		return engine, nil
	}

	engine, err := manager.StartGame(ctx, entity.NewPlayer(conf.Players.First), entity.NewPlayer(conf.Players.Second))
	if err != nil {
		return nil, fmt.Errorf("could not start game: %w", err)
	}

	return engine, nil
}

func newGameRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Debug("redis disabled, games are kept in memory")
		return repository.NewMemoryGameRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	client, err := storage.NewRedisClient(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(client, conf.Redis.TTL), closeFn, nil
}
