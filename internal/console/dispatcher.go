package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// ErrQuit is returned by Run when the player leaves before the game is over.
var ErrQuit = errors.New("player quit")

// Mover applies column drops; *connectfour.Engine satisfies it.
type Mover interface {
	DropPiece(column int) (connectfour.MoveResult, error)
	CurrentPlayer() entity.Player
	IsGameOver() bool
	Width() int
}

// Restarter is implemented by movers that can start over on the same players once a game is over.
type Restarter interface {
	Restart() error
}

// Dispatcher turns lines of text into column drops. Columns are numbered from 1 for humans.
type Dispatcher struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewDispatcher(in io.Reader, out io.Writer) *Dispatcher {
	return &Dispatcher{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run feeds moves to the mover until the game is over, the input ends or the player quits.
// A mover that is also a Restarter is offered another game after each one ends.
func (that *Dispatcher) Run(ctx context.Context, mover Mover) error {
	for {
		if err := that.play(ctx, mover); err != nil {
			return err
		}

		restarter, ok := mover.(Restarter)
		if !ok {
			return nil
		}

		again, err := that.askPlayAgain(ctx)
		if err != nil || !again {
			return err
		}

		if err = restarter.Restart(); err != nil {
			return fmt.Errorf("failed to start a new game: %w", err)
		}
	}
}

func (that *Dispatcher) play(ctx context.Context, mover Mover) error {
	for !mover.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(that.out, "%s, choose a column (1-%d) or q to quit: ", mover.CurrentPlayer().Color, mover.Width())

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return io.EOF
		}

		// input that arrives after cancellation is dropped
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(that.in.Text())
		if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
			return ErrQuit
		}

		number, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(that.out, "%q is not a column number\n", line)
			continue
		}

		if _, err = mover.DropPiece(number - 1); err != nil {
			that.explain(number, err)
		}
	}

	return nil
}

// askPlayAgain treats the end of input as a no.
func (that *Dispatcher) askPlayAgain(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprint(that.out, "Play again? (y/n): ")

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}
		return false, nil
	}

	answer := strings.TrimSpace(that.in.Text())
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (that *Dispatcher) explain(number int, err error) {
	switch {
	case errors.Is(err, apperror.ErrSnapshotNotSaved):
		fmt.Fprintf(that.out, "warning: column %d was played but the game could not be saved\n", number)
	case errors.Is(err, apperror.ErrColumnFull):
		fmt.Fprintf(that.out, "column %d is full\n", number)
	case errors.Is(err, apperror.ErrColumnOutOfRange):
		fmt.Fprintf(that.out, "column %d does not exist\n", number)
	default:
		fmt.Fprintf(that.out, "move failed: %v\n", err)
	}
}
