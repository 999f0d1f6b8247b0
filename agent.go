package sssg

import (
	"context"
	"fmt"
	"time"

	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
	"github.com/gorgonia/sssg/mcts"
	"github.com/gorgonia/sssg/minimax"
	"github.com/pkg/errors"
)

// An Agent is a player. It chooses one of the actions of the state it is given.
//
// Choose must leave the state where it found it. Agents used in a Tournament must be safe
// for concurrent use.
type Agent interface {
	Name() string
	Choose(ctx context.Context, st game.State) (int, error)
}

// RandomAgent picks a uniformly random action. The pick is a function of its seed and the
// state, so replaying a game replays the agent's choices.
type RandomAgent struct {
	name string
	seed uint32
}

func NewRandomAgent(name string, seed uint32) *RandomAgent {
	return &RandomAgent{name: name, seed: seed}
}

func (a *RandomAgent) Name() string { return a.name }

func (a *RandomAgent) Choose(ctx context.Context, st game.State) (int, error) {
	actions, err := st.Actions()
	if err != nil {
		return -1, err
	}
	if len(actions) == 0 {
		return -1, errors.Wrapf(game.ErrTerminalHasNoChildren, "%v has no actions", st.ID())
	}
	r := hasher.NewNamespaced("agent:"+a.name, hasher.Uniform, uint64(st.ID()), a.seed)
	i, err := r.Int(0, int64(len(actions)-1))
	if err != nil {
		return -1, err
	}
	return actions[i], nil
}

// MinimaxAgent searches Depth plies ahead with alpha-beta.
type MinimaxAgent struct {
	Depth int
}

func (a MinimaxAgent) Name() string { return fmt.Sprintf("minimax(%d)", a.Depth) }

func (a MinimaxAgent) Choose(ctx context.Context, st game.State) (int, error) {
	res, err := minimax.Search(ctx, st, a.Depth)
	if err != nil {
		return -1, err
	}
	return res.Action, nil
}

// MCTSAgent runs a Monte Carlo tree search for every move. Search trees are pooled per config.
type MCTSAgent struct {
	Config mcts.Config
}

func (a MCTSAgent) Name() string {
	if a.Config.Timeout > 0 {
		return fmt.Sprintf("mcts(%d, %v)", a.Config.Budget, a.Config.Timeout.Round(time.Millisecond))
	}
	return fmt.Sprintf("mcts(%d)", a.Config.Budget)
}

func (a MCTSAgent) Choose(ctx context.Context, st game.State) (int, error) {
	t := borrowTree(a.Config)
	defer returnTree(a.Config, t)
	return t.Search(ctx, st)
}
