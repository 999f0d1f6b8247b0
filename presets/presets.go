// Package presets holds ready made configurations that mimic the shape of known games.
package presets

import (
	"math"
	"sort"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

// TicTacToe is a nine ply game where every move fills one of the remaining cells.
func TicTacToe() sssg.Config {
	c := sssg.DefaultConfig()
	c.MaxDepth = 9
	c.TrueValueForcedRatio = 0.5
	c.TrueValueTieChance = 0.2
	c.TrueValueSimilarityChance = 0.7
	c.SymmetryFactor = 0.25 // reflections around four axes
	c.SymmetryFrequency = 0.2
	c.TerminalMinimumDepth = 5 // nobody wins before the fifth move
	c.TerminalChance = 0.75
	c.Behaviour.Branching = ticTacToeBranching
	c.Behaviour.TranspositionSpace = ticTacToeSpace
	return c
}

// ticTacToeBranching is the number of empty cells, unless the game ends early.
func ticTacToeBranching(r sssg.Rand, p sssg.StateParams) (int, error) {
	roll, err := r.Float(0, 1)
	if err != nil {
		return 0, err
	}
	if p.Depth >= p.TerminalMinimumDepth && roll < p.TerminalChance {
		return 0, nil
	}
	return int(9 - p.Depth), nil
}

// ticTacToeSpace is the number of boards with depth marks on them, X having moved first.
func ticTacToeSpace(r sssg.Rand, p *sssg.Params, depth int64) (int64, error) {
	if depth > 9 {
		return 1, nil
	}
	return binomial(9, depth) * binomial(depth, depth/2), nil
}

// ConnectFour is a 42 ply game with seven columns and a rough estimate of how many
// positions there are at each depth.
func ConnectFour() sssg.Config {
	c := sssg.DefaultConfig()
	c.MaxDepth = 42
	c.BranchingFactorBase = 7
	c.TerminalMinimumDepth = 7
	c.TerminalChance = 0.01
	c.SymmetryFactor = 0.5 // mirrored along the centre column
	c.SymmetryFrequency = 0.01
	c.Behaviour.TranspositionSpace = connectFourSpace
	return c
}

func connectFourSpace(r sssg.Rand, p *sssg.Params, depth int64) (int64, error) {
	if depth <= 1 {
		return 100000, nil
	}
	// 7^2 * 4^(depth-2)
	limit := p.MaxTranspositionSpaceSize()
	space := int64(49)
	for i := int64(2); i < depth; i++ {
		if space > limit/4 {
			return limit, nil
		}
		space *= 4
	}
	return space, nil
}

// ConnectFourDetailed follows the measured branching factors and position counts of the
// first ten plies of connect four.
func ConnectFourDetailed() sssg.Config {
	c := sssg.DefaultConfig()
	c.MaxDepth = 42
	c.Behaviour.Branching = connectFourBranching
	c.Behaviour.TranspositionSpace = connectFourDetailedSpace
	return c
}

// full columns and finished games per depth, from the real game: (six columns left, terminal, seven columns left)
var connectFourCounts = map[int64][3]float64{
	6:  {7, 0, 16415},
	7:  {294, 728, 53837},
	8:  {4326, 1892, 178057},
	9:  {31984, 19412, 506790},
	10: {157734, 44225, 1460664},
}

func connectFourBranching(r sssg.Rand, p sssg.StateParams) (int, error) {
	roll, err := r.Float(0, 1)
	if err != nil {
		return 0, err
	}
	if p.Depth < 6 {
		return 7, nil
	}
	counts, ok := connectFourCounts[p.Depth]
	if !ok {
		counts = connectFourCounts[10]
	}
	total := counts[0] + counts[1] + counts[2]
	switch {
	case roll < counts[0]/total:
		return 6, nil
	case roll < (counts[0]+counts[1])/total:
		return 0, nil
	}
	return 7, nil
}

var connectFourSpaces = []int64{1, 100000, 100000, 438, 1950, 5708, 22209, 66822, 227191, 649959, 1662623}

func connectFourDetailedSpace(r sssg.Rand, p *sssg.Params, depth int64) (int64, error) {
	if depth < int64(len(connectFourSpaces)) {
		return connectFourSpaces[depth], nil
	}
	return connectFourSpace(r, p, depth)
}

// PGame is a P-game with critical moves: wide, without ties, and with winning states
// that usually have a single winning move.
func PGame() sssg.Config {
	c := sssg.DefaultConfig()
	c.BranchingFactorBase = 20
	c.BranchingFactorVariance = 5
	c.TrueValueForcedRatio = 0.001
	c.TrueValueTieChance = 0
	c.RootTrueValue = game.Win
	return c
}

// MidgameHeavy branches most halfway through the game, along a parabola.
func MidgameHeavy() sssg.Config {
	c := sssg.DefaultConfig()
	c.MaxDepth = 40
	c.BranchingFactorBase = 10
	c.BranchingFactorVariance = 2
	c.TerminalMinimumDepth = 5
	c.Behaviour.Branching = midgameBranching
	return c
}

func midgameBranching(r sssg.Rand, p sssg.StateParams) (int, error) {
	variance, err := r.Float(-p.BranchingFactorVariance, p.BranchingFactorVariance)
	if err != nil {
		return 0, err
	}
	x := 2 * float64(p.Depth) / float64(p.MaxDepth)
	y := 1 - (x-1)*(x-1)
	bf := int(math.Max(0, y*float64(p.BranchingFactorBase)+math.Round(variance)))
	if p.Depth < p.TerminalMinimumDepth && bf < 1 {
		bf = 1
	}
	return bf, nil
}

var registry = map[string]func() sssg.Config{
	"tictactoe":            TicTacToe,
	"connectfour":          ConnectFour,
	"connectfour-detailed": ConnectFourDetailed,
	"pgame":                PGame,
	"midgame-heavy":        MidgameHeavy,
}

// Lookup returns the preset with the given name.
func Lookup(name string) (sssg.Config, error) {
	f, ok := registry[name]
	if !ok {
		return sssg.Config{}, errors.Wrapf(game.ErrValidation, "unknown preset %q (known: %v)", name, Names())
	}
	return f(), nil
}

// Names lists the presets, sorted.
func Names() []string {
	retVal := make([]string, 0, len(registry))
	for name := range registry {
		retVal = append(retVal, name)
	}
	sort.Strings(retVal)
	return retVal
}

func binomial(n, k int64) int64 {
	if k < 0 || k > n {
		return 0
	}
	retVal := int64(1)
	for i := int64(1); i <= k; i++ {
		retVal = retVal * (n - k + i) / i
	}
	return retVal
}
