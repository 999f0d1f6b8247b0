// Package minimax provides depth-limited alpha-beta search over a game.State.
package minimax

import (
	"context"
	"math"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

// ctxCheckInterval is how many nodes are searched between context checks.
const ctxCheckInterval = 1024

type bound uint8

const (
	exact bound = iota
	lower
	upper
)

type key struct {
	id    game.StateID
	depth int
}

type entry struct {
	value  float64
	action int
	bound
}

// Result is the outcome of a search.
type Result struct {
	Action int     // best action at the root, -1 if the root is terminal
	Value  float64 // value of the root from the perspective of the player to move
	Nodes  int     // nodes visited
	Hits   int     // transposition table hits
}

// Searcher is a negamax searcher with a transposition table. The table is keyed by state
// identifier, so it is shared between transposed positions.
type Searcher struct {
	table map[key]entry
	nodes int
	hits  int
	ctx   context.Context
}

func New() *Searcher { return &Searcher{table: make(map[key]entry)} }

// Reset clears the transposition table.
func (s *Searcher) Reset() { s.table = make(map[key]entry) }

// Search searches s to the given depth. Horizon states are scored by their heuristic
// value, terminals by their true value. s is left on the state it started from.
func (s *Searcher) Search(ctx context.Context, st game.State, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, errors.Wrapf(game.ErrValidation, "search depth %d must be positive", depth)
	}
	s.ctx, s.nodes, s.hits = ctx, 0, 0
	v, a, err := s.negamax(st, depth, math.Inf(-1), math.Inf(1))
	if err != nil {
		return Result{}, err
	}
	return Result{Action: a, Value: v, Nodes: s.nodes, Hits: s.hits}, nil
}

// Search is a convenience for a one-off search with a fresh table.
func Search(ctx context.Context, st game.State, depth int) (Result, error) {
	return New().Search(ctx, st, depth)
}

func sign(p game.Player) float64 {
	if p == game.Min {
		return -1
	}
	return 1
}

func (s *Searcher) negamax(st game.State, depth int, alpha, beta float64) (float64, int, error) {
	s.nodes++
	if s.nodes%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return 0, -1, err
		}
	}

	terminal, err := st.IsTerminal()
	if err != nil {
		return 0, -1, err
	}
	colour := sign(st.Player())
	if terminal {
		return colour * float64(st.TrueValue()), -1, nil
	}
	if depth == 0 {
		h, err := st.HeuristicValue()
		if err != nil {
			return 0, -1, err
		}
		return colour * h, -1, nil
	}

	k := key{st.ID(), depth}
	origAlpha := alpha
	first := -1
	if e, ok := s.table[k]; ok {
		s.hits++
		switch e.bound {
		case exact:
			return e.value, e.action, nil
		case lower:
			alpha = math.Max(alpha, e.value)
		case upper:
			beta = math.Min(beta, e.value)
		}
		if alpha >= beta {
			return e.value, e.action, nil
		}
		first = e.action
	}

	actions, err := st.Actions()
	if err != nil {
		return 0, -1, err
	}
	// the best action from the table goes first
	if first >= 0 {
		actions = append([]int{first}, actions...)
	}

	best, bestAction := math.Inf(-1), -1
	for i, a := range actions {
		if i > 0 && a == first {
			continue
		}
		if err = st.Make(a); err != nil {
			return 0, -1, err
		}
		v, _, err := s.negamax(st, depth-1, -beta, -alpha)
		if uerr := st.Undo(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return 0, -1, err
		}
		v = -v
		if v > best {
			best, bestAction = v, a
		}
		alpha = math.Max(alpha, v)
		if alpha >= beta {
			break
		}
	}

	e := entry{value: best, action: bestAction}
	switch {
	case best <= origAlpha:
		e.bound = upper
	case best >= beta:
		e.bound = lower
	}
	s.table[k] = e
	return best, bestAction, nil
}

// Solve returns the minimax value of s over true values, looking at most depth plies ahead.
// States at the horizon count with their own true value.
func Solve(st game.State, depth int) (game.TrueValue, error) {
	terminal, err := st.IsTerminal()
	if err != nil {
		return 0, err
	}
	if terminal || depth <= 0 {
		return st.TrueValue(), nil
	}
	actions, err := st.Actions()
	if err != nil {
		return 0, err
	}
	player := st.Player()
	best := game.Loss.Relative(player)
	for _, a := range actions {
		if err = st.Make(a); err != nil {
			return 0, err
		}
		v, err := Solve(st, depth-1)
		if uerr := st.Undo(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return 0, err
		}
		if v.Relative(player) > best.Relative(player) {
			best = v
		}
		if best.Relative(player) == game.Win {
			break
		}
	}
	return best, nil
}
