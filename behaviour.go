package sssg

import (
	"math"

	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
)

// Rand is the source of randomness handed to behaviour functions. Every draw advances the
// calling node's hash sequence, so a behaviour function must make the same draws, in the
// same order, whenever it is called with the same arguments.
type Rand interface {
	Float(low, high float64) (float64, error)
	Int(low, high int64) (int64, error)
	FloatDist(low, high float64, d hasher.Distribution) (float64, error)
	IntDist(low, high int64, d hasher.Distribution) (int64, error)
}

// StateParams is what a behaviour function knows about the state it is working on.
type StateParams struct {
	*Params

	ID                 game.StateID
	TrueValue          game.TrueValue
	Player             game.Player
	Depth              int64
	Record             int64
	TranspositionSpace int64 // size of the transposition space at Depth
}

// SiblingInfo summarizes the unique children generated so far for a parent. Counts are
// from the perspective of the player choosing among the children.
type SiblingInfo struct {
	Total  int
	Wins   int
	Ties   int
	Losses int
}

func (s *SiblingInfo) add(relative game.TrueValue) {
	s.Total++
	switch relative {
	case game.Win:
		s.Wins++
	case game.Tie:
		s.Ties++
	case game.Loss:
		s.Losses++
	}
}

type (
	// BranchingFunc returns the number of children of a state. Anything below 1 makes it terminal.
	BranchingFunc func(r Rand, p StateParams) (int, error)

	// HeuristicValueFunc estimates the value of a state, from MAX's perspective, in [-1, 1].
	HeuristicValueFunc func(r Rand, p StateParams) (float64, error)

	// ChildTrueValueFunc returns the true value of the next child of p, given the siblings so far.
	ChildTrueValueFunc func(r Rand, p StateParams, branchingFactor int, siblings SiblingInfo) (game.TrueValue, error)

	// ChildDepthFunc returns the depth of the next child of p. It must lie in [0, MaxDepth].
	ChildDepthFunc func(r Rand, p StateParams) (int64, error)

	// TranspositionSpaceFunc returns the number of records available at depth. It is called
	// at most once per depth per graph, with its own sequence keyed by depth.
	TranspositionSpaceFunc func(r Rand, p *Params, depth int64) (int64, error)
)

// Behaviour is the set of pluggable functions that shape a graph. Nil fields use the defaults.
type Behaviour struct {
	Branching          BranchingFunc
	HeuristicValue     HeuristicValueFunc
	ChildTrueValue     ChildTrueValueFunc
	ChildDepth         ChildDepthFunc
	TranspositionSpace TranspositionSpaceFunc
}

func (b Behaviour) withDefaults() Behaviour {
	if b.Branching == nil {
		b.Branching = DefaultBranching
	}
	if b.HeuristicValue == nil {
		b.HeuristicValue = DefaultHeuristicValue
	}
	if b.ChildTrueValue == nil {
		b.ChildTrueValue = DefaultChildTrueValue
	}
	if b.ChildDepth == nil {
		b.ChildDepth = DefaultChildDepth
	}
	if b.TranspositionSpace == nil {
		b.TranspositionSpace = DefaultTranspositionSpace
	}
	return b
}

// DefaultBranching draws the base branching factor plus a rounded variance. From
// TerminalMinimumDepth on, a state becomes terminal with probability TerminalChance.
// Shallower than TerminalMinimumDepth, every state has at least one child.
//
// Both draws are always made.
func DefaultBranching(r Rand, p StateParams) (int, error) {
	variance, err := r.Float(-p.BranchingFactorVariance, p.BranchingFactorVariance)
	if err != nil {
		return 0, err
	}
	roll, err := r.Float(0, 1)
	if err != nil {
		return 0, err
	}

	bf := p.BranchingFactorBase + int(math.Round(variance))
	if bf < 0 {
		bf = 0
	}
	if p.Depth >= p.TerminalMinimumDepth {
		if roll < p.TerminalChance {
			bf = 0
		}
	} else if bf < 1 {
		bf = 1
	}
	return bf, nil
}

// DefaultHeuristicValue centres a draw on the true value. Accuracy grows with depth and
// with how close the record sits to the crest of a sine over the transposition space, so
// neighbouring records get similarly good estimates.
func DefaultHeuristicValue(r Rand, p StateParams) (float64, error) {
	depthRatio := float64(p.Depth) / float64(p.MaxDepth)
	var familiarity float64
	if p.TranspositionSpace > 0 {
		familiarity = (math.Sin(2*math.Pi*float64(p.Record)/float64(p.TranspositionSpace)) + 1) / 2
	}
	bonus := (p.HeuristicDepthScaling*depthRatio + p.HeuristicLocalityScaling*familiarity) / 2
	accuracy := clamp(p.HeuristicAccuracyBase+(1-p.HeuristicAccuracyBase)*bonus, 0, 1)
	spread := 1 - accuracy

	if p.TrueValue == game.Tie {
		return r.Float(-spread, spread)
	}
	centre := float64(p.TrueValue) * accuracy
	return r.Float(clamp(centre-spread, -1, 1), clamp(centre+spread, -1, 1))
}

// DefaultChildTrueValue keeps the game consistent with minimax: children of a lost state
// are all lost for the mover, a tied state has at least one tied child and no winning ones,
// and a won state has at least one winning child.
//
// TrueValueForcedRatio is the share of the children that are forced to carry the parent's
// value before any randomness is used.
func DefaultChildTrueValue(r Rand, p StateParams, branchingFactor int, siblings SiblingInfo) (game.TrueValue, error) {
	mover := p.Player
	bf := float64(branchingFactor)
	var rel game.TrueValue
	switch p.TrueValue.Relative(mover) {
	case game.Loss:
		rel = game.Loss
	case game.Tie:
		if float64(siblings.Ties)/bf < p.TrueValueForcedRatio {
			rel = game.Tie
			break
		}
		roll, err := r.Float(0, 1)
		if err != nil {
			return 0, err
		}
		if roll < p.TrueValueTieChance {
			rel = game.Tie
		} else {
			rel = game.Loss
		}
	case game.Win:
		if float64(siblings.Wins)/bf < p.TrueValueForcedRatio {
			rel = game.Win
			break
		}
		roll, err := r.Float(0, 1)
		if err != nil {
			return 0, err
		}
		if roll < p.TrueValueTieChance {
			rel = game.Tie
			break
		}
		if roll, err = r.Float(0, 1); err != nil {
			return 0, err
		}
		if roll < p.TrueValueSimilarityChance {
			rel = game.Win
		} else {
			rel = game.Loss
		}
	}
	return rel.Relative(mover), nil
}

// DefaultChildDepth draws a depth between ChildDepthMinimum and ChildDepthMaximum plies
// below the parent, limited to [0, MaxDepth].
func DefaultChildDepth(r Rand, p StateParams) (int64, error) {
	low := clampInt(p.Depth+p.ChildDepthMinimum, 0, p.MaxDepth)
	high := clampInt(p.Depth+p.ChildDepthMaximum, 0, p.MaxDepth)
	return r.Int(low, high)
}

// DefaultTranspositionSpace gives every depth the largest possible space.
func DefaultTranspositionSpace(r Rand, p *Params, depth int64) (int64, error) {
	return p.MaxTranspositionSpaceSize(), nil
}

func clamp(v, low, high float64) float64 {
	switch {
	case v < low:
		return low
	case v > high:
		return high
	}
	return v
}

func clampInt(v, low, high int64) int64 {
	switch {
	case v < low:
		return low
	case v > high:
		return high
	}
	return v
}
