package sssg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Arena plays games between two agents on a graph. Every game starts from the state the
// graph was on when the arena was made, and is played on its own navigator.
type Arena struct {
	A, B Agent

	// MaxPlies stops a game after that many plies. A stopped game is scored by the heuristic
	// value of the state it stopped on. 0 plays until a terminal state.
	MaxPlies int

	// Recorder, when set, is given every position of the games started with Play.
	Recorder OutputEncoder

	Statistics

	start  *Graph
	lock   sync.Mutex
	buf    bytes.Buffer
	logger *log.Logger
}

// Outcome is the result of one game.
type Outcome struct {
	Game     int
	Max, Min string         // agent names
	Value    game.TrueValue // for MAX
	Plies    int
	Finished bool // reached a terminal state
	Path     []game.StateID
}

// Winner returns the name of the winning agent, or "" for a tie.
func (o Outcome) Winner() string {
	switch o.Value {
	case game.Win:
		return o.Max
	case game.Loss:
		return o.Min
	}
	return ""
}

func (o Outcome) Format(s fmt.State, c rune) {
	winner := o.Winner()
	if winner == "" {
		winner = "tie"
	}
	fmt.Fprintf(s, "game %d: %v (MAX) vs %v (MIN) after %d plies: %v", o.Game, o.Max, o.Min, o.Plies, winner)
}

// NewArena makes an arena given a graph and two agents.
func NewArena(g *Graph, a, b Agent) (*Arena, error) {
	start, err := g.Clone()
	if err != nil {
		return nil, err
	}
	ar := &Arena{
		A:          a,
		B:          b,
		Statistics: makeStatistics(),
		start:      start,
	}
	ar.logger = log.New(&ar.buf, "", log.Ltime)
	return ar, nil
}

// Play plays one game. When aIsMax is true, A moves for MAX and B for MIN, and the other
// way around otherwise.
func (a *Arena) Play(ctx context.Context, gameNumber int, aIsMax bool) (Outcome, error) {
	a.lock.Lock()
	nav, err := a.start.Clone()
	a.lock.Unlock()
	if err != nil {
		return Outcome{}, err
	}
	return a.play(ctx, nav, gameNumber, aIsMax, a.Recorder)
}

func (a *Arena) play(ctx context.Context, nav *Graph, gameNumber int, aIsMax bool, enc OutputEncoder) (Outcome, error) {
	maxAgent, minAgent := a.A, a.B
	if !aIsMax {
		maxAgent, minAgent = a.B, a.A
	}
	o := Outcome{Game: gameNumber, Max: maxAgent.Name(), Min: minAgent.Name(), Path: []game.StateID{nav.ID()}}
	a.logf("game %d: %v (MAX) vs %v (MIN) from %v", gameNumber, o.Max, o.Min, nav.ID())
	m := &match{st: nav, name: fmt.Sprintf("%v vs %v", o.Max, o.Min), number: gameNumber}
	if enc != nil {
		if err := enc.Encode(m); err != nil {
			return o, err
		}
	}

	for a.MaxPlies == 0 || o.Plies < a.MaxPlies {
		if err := ctx.Err(); err != nil {
			return o, err
		}
		terminal, err := nav.IsTerminal()
		if err != nil {
			return o, err
		}
		if terminal {
			o.Finished = true
			break
		}

		mover := nav.Player()
		current := maxAgent
		if mover == game.Min {
			current = minAgent
		}
		action, err := current.Choose(ctx, nav)
		if err != nil {
			return o, errors.WithMessagef(err, "game %d: %v choosing at %v", gameNumber, current.Name(), nav.ID())
		}
		if err = nav.Make(action); err != nil {
			return o, errors.WithMessagef(err, "game %d: %v chose %d at %v", gameNumber, current.Name(), action, nav.ID())
		}
		a.logf("\t%v played %d -> %v", current.Name(), action, nav.ID())
		o.Path = append(o.Path, nav.ID())
		o.Plies++
		if enc != nil {
			m.moved(game.PlayerMove{Player: mover, Action: action})
			if err := enc.Encode(m); err != nil {
				return o, err
			}
		}
	}

	if !o.Finished {
		terminal, err := nav.IsTerminal()
		if err != nil {
			return o, err
		}
		o.Finished = terminal
	}
	if o.Finished {
		o.Value = nav.TrueValue()
	} else {
		h, err := nav.HeuristicValue()
		if err != nil {
			return o, err
		}
		switch {
		case h > 0:
			o.Value = game.Win
		case h < 0:
			o.Value = game.Loss
		}
	}
	a.logf("%v", o)
	a.Statistics.update(o)
	return o, nil
}

// Tournament plays games between A and B on at most workers goroutines, alternating who
// plays MAX. Outcomes are returned in game order. Tournament games are not recorded.
func (a *Arena) Tournament(ctx context.Context, games, workers int) ([]Outcome, error) {
	if games < 0 || workers < 1 {
		return nil, errors.Wrapf(game.ErrValidation, "cannot play %d games on %d workers", games, workers)
	}
	navs := make([]*Graph, games)
	a.lock.Lock()
	for i := range navs {
		var err error
		if navs[i], err = a.start.Clone(); err != nil {
			a.lock.Unlock()
			return nil, err
		}
	}
	a.lock.Unlock()

	outcomes := make([]Outcome, games)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range navs {
		i := i
		eg.Go(func() (err error) {
			outcomes[i], err = a.play(ctx, navs[i], i, i%2 == 0, nil)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *Arena) logf(format string, args ...interface{}) {
	a.lock.Lock()
	a.logger.Printf(format, args...)
	a.lock.Unlock()
}

// Log writes the arena's log to w.
func (a *Arena) Log(w io.Writer) {
	a.lock.Lock()
	defer a.lock.Unlock()
	fmt.Fprint(w, a.buf.String())
}
