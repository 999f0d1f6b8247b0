package mcts

import (
	"context"
	"time"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

/*
Here lies the MCTS search code, while node.go and mcts.go handle the data structure stuff.

The search walks a single game.State forwards with Make and backwards with Undo, so a search never
needs to copy a state. One MCTS must therefore not be shared by concurrent searches.
*/

// Search runs the search from the current state of st and returns the best action.
// st is left at the state it started at.
func (t *MCTS) Search(ctx context.Context, st game.State) (int, error) {
	if !t.Config.IsValid() {
		return -1, errors.Wrapf(game.ErrValidation, "invalid search config %+v", t.Config)
	}
	terminal, err := st.IsTerminal()
	if err != nil {
		return -1, err
	}
	if terminal {
		return -1, errors.Wrapf(game.ErrTerminalHasNoChildren, "cannot search from %v", st.ID())
	}

	t.Reset()
	t.root = t.New(-1, st.ID(), st.Player(), 0)
	t.log("SEARCH. Player %v State %v", st.Player(), st.ID())

	var deadline time.Time
	if t.Timeout > 0 {
		deadline = time.Now().Add(t.Timeout)
	}

	for t.iterations < t.Budget {
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) && t.iterations > 0 {
			break
		}
		if _, err := t.pipeline(st, t.root); err != nil {
			return -1, err
		}
		t.iterations++
	}

	best := t.bestMove()
	t.log("Iterations %d Nodes: %v. Best: %v", t.iterations, len(t.nodes), best)
	return best, nil
}

// pipeline is a recursive MCTS pipeline:
//	SELECT, EXPAND, SIMULATE, BACKPROPAGATE.
//
// Because of the recursive nature, the pipeline is altered a bit to be this:
//	EXPAND and SIMULATE, SELECT and RECURSE, BACKPROPAGATE.
//
// The returned score is from MAX's point of view.
func (t *MCTS) pipeline(st game.State, start naughty) (retVal float32, err error) {
	n := t.nodeFromNaughty(start)
	t.log("\tPIPELINE: %v", n)

	switch {
	case n.IsTerminal():
		retVal = score(float64(st.TrueValue()))
	case !n.IsExpanded():
		if retVal, err = t.expandAndSimulate(st, start); err != nil {
			return 0, err
		}
	default:
		next := t.nodeFromNaughty(n.Select())
		if err = st.Make(next.Action()); err != nil {
			return 0, errors.Wrapf(err, "selecting action %d at %v", next.Action(), st.ID())
		}
		retVal, err = t.pipeline(st, next.id)
		if uerr := st.Undo(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return 0, err
		}
	}

	// BACKPROPAGATE. Expansion may have grown the arena, so n is fetched again.
	t.nodeFromNaughty(start).Update(retVal)
	return retVal, nil
}

// expandAndSimulate adds the children of n to the tree and evaluates st.
func (t *MCTS) expandAndSimulate(st game.State, n naughty) (float32, error) {
	terminal, err := st.IsTerminal()
	if err != nil {
		return 0, err
	}
	if terminal {
		t.nodeFromNaughty(n).markTerminal()
		return score(float64(st.TrueValue())), nil
	}

	actions, err := st.Actions()
	if err != nil {
		return 0, err
	}
	t.log("\t\tExpand and Simulate. State: %v Player: %v. Available actions %v", st.ID(), st.Player(), actions)
	for _, a := range actions {
		if err := st.Make(a); err != nil {
			return 0, err
		}
		prior, err := t.evaluate(st)
		if err == nil {
			kid := t.New(a, st.ID(), st.Player(), prior)
			t.addChild(n, kid)
		}
		if uerr := st.Undo(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return 0, err
		}
	}
	t.nodeFromNaughty(n).markExpanded()

	if t.Playouts == 0 {
		return t.evaluate(st)
	}
	return t.rollout(st)
}

// rollout plays random actions from st for at most Playouts plies and evaluates where it ends up.
func (t *MCTS) rollout(st game.State) (retVal float32, err error) {
	var plies int
	defer func() {
		for ; plies > 0; plies-- {
			if uerr := st.Undo(); uerr != nil && err == nil {
				err = uerr
			}
		}
	}()
	for plies < t.Playouts {
		terminal, err := st.IsTerminal()
		if err != nil {
			return 0, err
		}
		if terminal {
			break
		}
		if err = st.MakeRandom(); err != nil {
			return 0, err
		}
		plies++
	}
	return t.evaluate(st)
}

// evaluate scores st from MAX's point of view: the true value for terminal states, the heuristic otherwise.
func (t *MCTS) evaluate(st game.State) (float32, error) {
	terminal, err := st.IsTerminal()
	if err != nil {
		return 0, err
	}
	if terminal {
		return score(float64(st.TrueValue())), nil
	}
	h, err := st.HeuristicValue()
	if err != nil {
		return 0, err
	}
	return score(h), nil
}

func (t *MCTS) bestMove() int {
	root := t.nodeFromNaughty(t.root)
	for _, child := range t.Children(t.root) {
		t.log("\t\t\t%v", t.nodeFromNaughty(child))
	}
	best := root.BestChild()
	if !best.isValid() {
		return -1
	}
	return t.nodeFromNaughty(best).Action()
}
