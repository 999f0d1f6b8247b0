package sssg

import (
	"testing"

	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted is a Rand that replays fixed fractions of each requested range.
type scripted struct {
	fracs []float64
	calls int
}

func (s *scripted) next() float64 {
	f := s.fracs[s.calls%len(s.fracs)]
	s.calls++
	return f
}

func (s *scripted) Float(low, high float64) (float64, error) {
	return low + s.next()*(high-low), nil
}

func (s *scripted) Int(low, high int64) (int64, error) {
	return low + int64(s.next()*float64(high-low)), nil
}

func (s *scripted) FloatDist(low, high float64, d hasher.Distribution) (float64, error) {
	return s.Float(low, high)
}

func (s *scripted) IntDist(low, high int64, d hasher.Distribution) (int64, error) {
	return s.Int(low, high)
}

func testParams(t *testing.T, mod func(*Config)) StateParams {
	conf := DefaultConfig()
	if mod != nil {
		mod(&conf)
	}
	p, err := newParams(conf)
	require.NoError(t, err)
	return StateParams{Params: p, TranspositionSpace: p.MaxTranspositionSpaceSize()}
}

func TestDefaultBranching(t *testing.T) {
	assert := assert.New(t)

	p := testParams(t, func(c *Config) {
		c.BranchingFactorBase = 5
		c.BranchingFactorVariance = 2
	})
	r := &scripted{fracs: []float64{0, 0.9}}
	bf, err := DefaultBranching(r, p)
	require.NoError(t, err)
	assert.Equal(3, bf)
	assert.Equal(2, r.calls, "both draws are always made")

	r = &scripted{fracs: []float64{1, 0.9}}
	bf, _ = DefaultBranching(r, p)
	assert.Equal(7, bf)

	// floored at zero
	p = testParams(t, func(c *Config) {
		c.BranchingFactorBase = 1
		c.BranchingFactorVariance = 3
	})
	bf, _ = DefaultBranching(&scripted{fracs: []float64{0, 0.9}}, p)
	assert.Equal(0, bf)

	// never terminal above the terminal minimum depth
	p = testParams(t, func(c *Config) {
		c.BranchingFactorBase = 0
		c.TerminalMinimumDepth = 4
		c.TerminalChance = 1
	})
	p.Depth = 3
	bf, _ = DefaultBranching(&scripted{fracs: []float64{0.5}}, p)
	assert.Equal(1, bf)

	p = testParams(t, func(c *Config) {
		c.BranchingFactorBase = 6
		c.TerminalMinimumDepth = 4
		c.TerminalChance = 0.5
	})
	p.Depth = 4
	bf, _ = DefaultBranching(&scripted{fracs: []float64{0.5, 0.4}}, p)
	assert.Equal(0, bf)
	bf, _ = DefaultBranching(&scripted{fracs: []float64{0.5, 0.6}}, p)
	assert.Equal(6, bf)
}

func TestDefaultChildTrueValue(t *testing.T) {
	const (
		low  = 0.05
		mid  = 0.35
		high = 0.95
	)
	tests := []struct {
		name     string
		tv       game.TrueValue
		player   game.Player
		siblings SiblingInfo
		fracs    []float64
		want     game.TrueValue
		draws    int
	}{
		{"MAX loss", game.Loss, game.Max, SiblingInfo{}, []float64{low}, game.Loss, 0},
		{"MIN loss", game.Win, game.Min, SiblingInfo{}, []float64{low}, game.Win, 0},
		{"tie quota", game.Tie, game.Max, SiblingInfo{Total: 0}, []float64{high}, game.Tie, 0},
		{"tie roll", game.Tie, game.Max, SiblingInfo{Total: 1, Ties: 1}, []float64{low}, game.Tie, 1},
		{"tie becomes loss", game.Tie, game.Max, SiblingInfo{Total: 1, Ties: 1}, []float64{high}, game.Loss, 1},
		{"MIN tie becomes loss", game.Tie, game.Min, SiblingInfo{Total: 1, Ties: 1}, []float64{high}, game.Win, 1},
		{"win quota", game.Win, game.Max, SiblingInfo{}, []float64{high}, game.Win, 0},
		{"MIN win quota", game.Loss, game.Min, SiblingInfo{}, []float64{high}, game.Loss, 0},
		{"win then tie", game.Win, game.Max, SiblingInfo{Total: 1, Wins: 1}, []float64{low}, game.Tie, 1},
		{"win stays win", game.Win, game.Max, SiblingInfo{Total: 1, Wins: 1}, []float64{high, mid}, game.Win, 2},
		{"win becomes loss", game.Win, game.Max, SiblingInfo{Total: 1, Wins: 1}, []float64{high, high}, game.Loss, 2},
	}
	for _, tc := range tests {
		p := testParams(t, func(c *Config) {
			c.TrueValueForcedRatio = 0.1
			c.TrueValueTieChance = 0.2
			c.TrueValueSimilarityChance = 0.5
		})
		p.TrueValue = tc.tv
		p.Player = tc.player
		r := &scripted{fracs: tc.fracs}
		got, err := DefaultChildTrueValue(r, p, 4, tc.siblings)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.name)
		assert.Equal(t, tc.draws, r.calls, tc.name)
	}
}

func TestDefaultChildDepth(t *testing.T) {
	assert := assert.New(t)
	p := testParams(t, func(c *Config) {
		c.MaxDepth = 10
		c.ChildDepthMinimum = -3
		c.ChildDepthMaximum = 4
	})
	r := hasher.New(hasher.Uniform, 1, 1)
	for _, depth := range []int64{0, 2, 8, 10} {
		p.Depth = depth
		for i := 0; i < 200; i++ {
			d, err := DefaultChildDepth(r, p)
			require.NoError(t, err)
			assert.GreaterOrEqual(d, int64(0))
			assert.LessOrEqual(d, int64(10))
			assert.GreaterOrEqual(d, depth-3)
			assert.LessOrEqual(d, depth+4)
		}
	}
}

func TestDefaultHeuristicValue(t *testing.T) {
	r := hasher.New(hasher.Uniform, 3, 3)
	p := testParams(t, func(c *Config) { c.MaxDepth = 10 })

	for _, tv := range []game.TrueValue{game.Loss, game.Tie, game.Win} {
		p.TrueValue = tv
		var sum float64
		const n = 2000
		for i := 0; i < n; i++ {
			p.Depth = int64(i % 11)
			p.Record = int64(i) * 7919
			h, err := DefaultHeuristicValue(r, p)
			require.NoError(t, err)
			require.True(t, h >= -1 && h <= 1, "heuristic %v out of range", h)
			sum += h
		}
		mean := sum / n
		switch tv {
		case game.Tie:
			assert.InDelta(t, 0, mean, 0.05)
		default:
			assert.Greater(t, mean*float64(tv), 0.5, "estimates of %v must lean towards it", tv)
		}
	}
}

func TestHeuristicAccuracyGrowsWithDepth(t *testing.T) {
	p := testParams(t, func(c *Config) {
		c.MaxDepth = 10
		c.HeuristicAccuracyBase = 0.2
		c.HeuristicDepthScaling = 1
		c.HeuristicLocalityScaling = 0
	})
	p.TrueValue = game.Win
	width := func(depth int64) float64 {
		p.Depth = depth
		lo, _ := DefaultHeuristicValue(&scripted{fracs: []float64{0}}, p)
		hi, _ := DefaultHeuristicValue(&scripted{fracs: []float64{1}}, p)
		return hi - lo
	}
	assert.Greater(t, width(0), width(5))
	assert.Greater(t, width(5), width(10))
}

func TestSiblingInfo(t *testing.T) {
	var s SiblingInfo
	for _, tv := range []game.TrueValue{game.Win, game.Tie, game.Tie, game.Loss} {
		s.add(tv)
	}
	assert.Equal(t, SiblingInfo{Total: 4, Wins: 1, Ties: 2, Losses: 1}, s)
}
