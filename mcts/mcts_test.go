package mcts_test

import (
	"context"
	"strings"
	"testing"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/mcts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(t *testing.T, mod func(*sssg.Config)) *sssg.Graph {
	t.Helper()
	conf := sssg.DefaultConfig()
	if mod != nil {
		mod(&conf)
	}
	g, err := sssg.New(conf)
	require.NoError(t, err)
	return g
}

func conf(budget int32) mcts.Config {
	c := mcts.DefaultConfig()
	c.Timeout = 0
	c.Budget = budget
	return c
}

func TestSearchPicksWinningChild(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		g := graph(t, func(c *sssg.Config) {
			c.Seed = seed
			c.MaxDepth = 2
			c.BranchingFactorBase = 4
			c.RootTrueValue = game.Win
		})
		tree := mcts.New(conf(1000))
		action, err := tree.Search(context.Background(), g)
		require.NoError(t, err)
		require.NoError(t, g.Make(action))
		assert.Equal(t, game.Win, g.TrueValue(), "seed %d", seed)
	}
}

func TestSearchLeavesStateUntouched(t *testing.T) {
	g := graph(t, func(c *sssg.Config) { c.MaxDepth = 8 })
	require.NoError(t, g.Make(1))
	here := g.ID()

	tree := mcts.New(conf(200))
	action, err := tree.Search(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, here, g.ID())

	actions, err := g.Actions()
	require.NoError(t, err)
	assert.Contains(t, actions, action)

	require.NoError(t, g.Undo())
	assert.True(t, g.IsRoot())
}

func TestSearchDeterminism(t *testing.T) {
	mod := func(c *sssg.Config) {
		c.Seed = 42
		c.MaxDepth = 12
		c.BranchingFactorBase = 3
		c.BranchingFactorVariance = 1
	}
	var actions []int
	var nodes []int
	var dots []string
	for i := 0; i < 2; i++ {
		tree := mcts.New(conf(300))
		a, err := tree.Search(context.Background(), graph(t, mod))
		require.NoError(t, err)
		actions = append(actions, a)
		nodes = append(nodes, tree.Nodes())
		dots = append(dots, tree.ToDot())
	}
	assert.Equal(t, actions[0], actions[1])
	assert.Equal(t, nodes[0], nodes[1])
	assert.Equal(t, dots[0], dots[1])
}

func TestSearchBudget(t *testing.T) {
	g := graph(t, nil)
	tree := mcts.New(conf(50))
	_, err := tree.Search(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, int32(50), tree.Iterations())
	require.NotNil(t, tree.Root())
	assert.Equal(t, uint32(50), tree.Root().Visits())
	assert.Equal(t, g.ID(), tree.Root().State())

	// searching again starts over
	_, err = tree.Search(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), tree.Root().Visits())
}

func TestSearchPlayouts(t *testing.T) {
	g := graph(t, func(c *sssg.Config) { c.BranchingFactorBase = 3 })
	c := conf(100)
	c.Playouts = 20
	tree := mcts.New(c)
	action, err := tree.Search(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, g.IsRoot())
	assert.True(t, action >= 0 && action < 3)
}

func TestSearchErrors(t *testing.T) {
	g := graph(t, func(c *sssg.Config) { c.MaxDepth = 1 })
	require.NoError(t, g.Make(0))
	_, err := mcts.New(conf(10)).Search(context.Background(), g)
	assert.Equal(t, game.ErrTerminalHasNoChildren, errors.Cause(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mcts.New(conf(10)).Search(ctx, graph(t, nil))
	assert.Equal(t, context.Canceled, err)

	bad := conf(10)
	bad.PUCT = 0
	_, err = mcts.New(bad).Search(context.Background(), graph(t, nil))
	assert.Equal(t, game.ErrValidation, errors.Cause(err))
}

func TestToDot(t *testing.T) {
	g := graph(t, func(c *sssg.Config) { c.MaxDepth = 3 })
	tree := mcts.New(conf(20))
	_, err := tree.Search(context.Background(), g)
	require.NoError(t, err)

	dot := tree.ToDot()
	assert.True(t, strings.HasPrefix(dot, "digraph G"))
	assert.Equal(t, tree.Nodes()-1, strings.Count(dot, "->"))
}
