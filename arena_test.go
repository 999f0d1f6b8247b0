package sssg

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/mcts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAgent(t *testing.T) {
	g := mustGraph(t, func(c *Config) { c.BranchingFactorBase = 6 })
	a := NewRandomAgent("a", 7)
	first, err := a.Choose(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, first >= 0 && first < 6)
	for i := 0; i < 5; i++ {
		again, err := a.Choose(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.True(t, g.IsRoot())

	// different agents do not all pick the same
	picks := make(map[int]struct{})
	for seed := uint32(0); seed < 32; seed++ {
		action, err := NewRandomAgent("a", seed).Choose(context.Background(), g)
		require.NoError(t, err)
		picks[action] = struct{}{}
	}
	assert.True(t, len(picks) > 1)
}

func TestMinimaxAgentKeepsWin(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		g := mustGraph(t, func(c *Config) {
			c.Seed = seed
			c.MaxDepth = 5
			c.BranchingFactorBase = 3
			c.RootTrueValue = game.Win
		})
		ar, err := NewArena(g, MinimaxAgent{Depth: 10}, NewRandomAgent("random", 1))
		require.NoError(t, err)
		o, err := ar.Play(context.Background(), 0, true)
		require.NoError(t, err)
		assert.True(t, o.Finished)
		assert.Equal(t, game.Win, o.Value, "seed %d", seed)
		assert.Equal(t, "minimax(10)", o.Winner())
		assert.Equal(t, 5, o.Plies)
		assert.Len(t, o.Path, o.Plies+1)
	}
}

func TestArenaSides(t *testing.T) {
	g := mustGraph(t, func(c *Config) { c.MaxDepth = 4 })
	ar, err := NewArena(g, NewRandomAgent("a", 1), NewRandomAgent("b", 2))
	require.NoError(t, err)

	o, err := ar.Play(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, "b", o.Max)
	assert.Equal(t, "a", o.Min)
	assert.Equal(t, g.ID(), o.Path[0])

	var buf bytes.Buffer
	ar.Log(&buf)
	assert.Contains(t, buf.String(), "b (MAX) vs a (MIN)")
}

func TestArenaStartsFromCurrentState(t *testing.T) {
	g := mustGraph(t, func(c *Config) { c.MaxDepth = 6 })
	require.NoError(t, g.Make(1))
	ar, err := NewArena(g, NewRandomAgent("a", 1), NewRandomAgent("b", 2))
	require.NoError(t, err)
	require.NoError(t, g.Undo())

	o, err := ar.Play(context.Background(), 0, true)
	require.NoError(t, err)
	require.NotEmpty(t, o.Path)
	assert.NotEqual(t, g.ID(), o.Path[0])
	assert.Equal(t, 5, o.Plies)
}

func TestArenaMaxPlies(t *testing.T) {
	g := mustGraph(t)
	ar, err := NewArena(g, NewRandomAgent("a", 1), NewRandomAgent("b", 2))
	require.NoError(t, err)
	ar.MaxPlies = 3
	o, err := ar.Play(context.Background(), 0, true)
	require.NoError(t, err)
	assert.False(t, o.Finished)
	assert.Equal(t, 3, o.Plies)
}

func TestTournament(t *testing.T) {
	run := func() ([]Outcome, *Arena) {
		g := mustGraph(t, func(c *Config) {
			c.MaxDepth = 7
			c.BranchingFactorVariance = 1
			c.Seed = 3
		})
		ar, err := NewArena(g, NewRandomAgent("a", 1), NewRandomAgent("b", 2))
		require.NoError(t, err)
		outcomes, err := ar.Tournament(context.Background(), 8, 3)
		require.NoError(t, err)
		return outcomes, ar
	}

	outcomes, ar := run()
	require.Len(t, outcomes, 8)
	for i, o := range outcomes {
		assert.Equal(t, i, o.Game)
		if i%2 == 0 {
			assert.Equal(t, "a", o.Max)
		} else {
			assert.Equal(t, "b", o.Max)
		}
	}
	assert.Equal(t, 8, ar.Games("a"))
	assert.Equal(t, 8, ar.Games("b"))
	assert.Equal(t, ar.Wins["a"], ar.Losses["b"])
	assert.Equal(t, ar.Draws["a"], ar.Draws["b"])

	again, _ := run()
	if diff := cmp.Diff(outcomes, again); diff != "" {
		t.Errorf("tournaments differ (-first +second):\n%s", diff)
	}
}

func TestTournamentMCTS(t *testing.T) {
	g := mustGraph(t, func(c *Config) {
		c.MaxDepth = 4
		c.BranchingFactorBase = 3
	})
	conf := mcts.DefaultConfig()
	conf.Timeout = 0
	conf.Budget = 100
	ar, err := NewArena(g, MCTSAgent{Config: conf}, MinimaxAgent{Depth: 2})
	require.NoError(t, err)
	outcomes, err := ar.Tournament(context.Background(), 4, 2)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.True(t, o.Finished)
	}
	assert.ElementsMatch(t, []string{"mcts(100)", "minimax(2)"}, ar.Creation)
}

func TestTournamentErrors(t *testing.T) {
	g := mustGraph(t)
	ar, err := NewArena(g, NewRandomAgent("a", 1), NewRandomAgent("b", 2))
	require.NoError(t, err)

	_, err = ar.Tournament(context.Background(), 2, 0)
	assert.Equal(t, game.ErrValidation, errors.Cause(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ar.Tournament(ctx, 2, 1)
	assert.Equal(t, context.Canceled, err)
}

func TestStatisticsCSV(t *testing.T) {
	s := makeStatistics()
	s.update(Outcome{Max: "a", Min: "b", Value: game.Win, Plies: 3})
	s.update(Outcome{Max: "b", Min: "a", Value: game.Tie, Plies: 2})
	s.update(Outcome{Max: "b", Min: "a", Value: game.Win, Plies: 4})
	s.update(Outcome{Max: "a", Min: "c", Value: game.Loss, Plies: 1})

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	expected := `agent,wins,losses,draws,win_rate
a,1,2,1,0.250
b,1,1,1,0.333
c,1,0,0,1.000
`
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, 10, s.Plies["a"])
}
