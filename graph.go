// Package sssg generates synthetic state space graphs for benchmarking game tree search.
//
// A graph is never stored. Every state is identified by a 63 bit StateID, and all of its
// other attributes (branching factor, heuristic value, children) are derived on demand
// from a hash of the seed and the identifier. The same Config therefore always yields the
// same graph, however it is explored and wherever exploration starts.
package sssg

import (
	"fmt"

	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
	"github.com/gorgonia/sssg/stateid"
	"github.com/pkg/errors"
)

// navigatorKey is the key of the graph-wide sequence used by MakeRandom.
const navigatorKey = 0

// Graph is a navigator over a synthetic graph. It sits on one state at a time.
//
// A Graph is not safe for concurrent use. Use Clone to get a navigator per goroutine.
type Graph struct {
	params *Params
	rng    *hasher.Hasher
	tspace map[int64]int64

	root, current *Node
}

var _ game.State = &Graph{}

// New creates a graph navigator sitting on the root.
func New(conf Config) (*Graph, error) {
	params, err := newParams(conf)
	if err != nil {
		return nil, err
	}
	return newGraph(params, nil)
}

func newGraph(params *Params, tspace map[int64]int64) (*Graph, error) {
	g := &Graph{
		params: params,
		rng:    hasher.NewNamespaced("navigator", hasher.Uniform, navigatorKey, uint32(params.Seed)),
		tspace: make(map[int64]int64, len(tspace)),
	}
	for k, v := range tspace {
		g.tspace[k] = v
	}

	f := stateid.Fields{TrueValue: params.RootTrueValue, Player: game.Max}
	id, err := params.Layout.Encode(f)
	if err != nil {
		return nil, err
	}
	g.root = g.newNode(id, f, nil)
	g.current = g.root
	return g, nil
}

// Clone returns an independent navigator over the same graph, sitting on a fresh root
// with the identifier of the current state.
func (g *Graph) Clone() (*Graph, error) {
	c, err := newGraph(g.params, g.tspace)
	if err != nil {
		return nil, err
	}
	if err = c.SetRoot(g.current.id); err != nil {
		return nil, err
	}
	return c, nil
}

// Params returns the parameters of the graph.
func (g *Graph) Params() *Params { return g.params }

// Current returns the node the navigator is sitting on.
func (g *Graph) Current() *Node { return g.current }

// Root returns the node the navigator started from.
func (g *Graph) Root() *Node { return g.root }

func (g *Graph) ID() game.StateID              { return g.current.id }
func (g *Graph) Player() game.Player           { return g.current.Player }
func (g *Graph) Depth() int64                  { return g.current.Depth }
func (g *Graph) Record() int64                 { return g.current.Record }
func (g *Graph) TrueValue() game.TrueValue     { return g.current.TrueValue }
func (g *Graph) IsRoot() bool                  { return g.current.IsRoot() }
func (g *Graph) IsTerminal() (bool, error)     { return g.current.IsTerminal() }
func (g *Graph) Actions() ([]int, error)       { return g.current.Actions() }
func (g *Graph) BranchingFactor() (int, error) { return g.current.BranchingFactor() }

func (g *Graph) HeuristicValue() (float64, error) { return g.current.HeuristicValue() }

// ChildIDs returns the identifiers of the children of the current state, by action.
func (g *Graph) ChildIDs() ([]game.StateID, error) {
	children, err := g.current.Children()
	if err != nil {
		return nil, err
	}
	retVal := make([]game.StateID, len(children))
	for i, c := range children {
		retVal[i] = c.id
	}
	return retVal, nil
}

// Make moves to the child at index action.
func (g *Graph) Make(action int) error {
	terminal, err := g.current.IsTerminal()
	if err != nil {
		return err
	}
	if terminal {
		return errors.Wrapf(game.ErrTerminalHasNoChildren, "cannot make action %d from %v", action, g.current.id)
	}
	children, err := g.current.Children()
	if err != nil {
		return err
	}
	if action < 0 || action >= len(children) {
		return errors.Wrapf(game.ErrValidation, "action %d is not in [0, %d)", action, len(children))
	}
	g.current = children[action]
	return nil
}

// MakeRandom moves to a child picked with the graph-wide sequence.
func (g *Graph) MakeRandom() error {
	terminal, err := g.current.IsTerminal()
	if err != nil {
		return err
	}
	if terminal {
		return errors.Wrapf(game.ErrTerminalHasNoChildren, "cannot make a random action from %v", g.current.id)
	}
	children, err := g.current.Children()
	if err != nil {
		return err
	}
	i, err := g.rng.Int(0, int64(len(children)-1))
	if err != nil {
		return err
	}
	return g.Make(int(i))
}

// Undo moves back to the parent. Unless the graph retains its tree, the state being left
// is reset.
func (g *Graph) Undo() error {
	if g.current.parent == nil {
		return errors.Wrapf(game.ErrRootHasNoParent, "cannot undo from %v", g.current.id)
	}
	leaving := g.current
	g.current = leaving.parent
	if !g.params.RetainTree {
		leaving.Reset()
	}
	return nil
}

// SetRoot makes the state with the given identifier the new root, and moves to it.
func (g *Graph) SetRoot(id game.StateID) error {
	f, err := g.params.Layout.Decode(id)
	if err != nil {
		return err
	}
	g.root = g.newNode(id, f, nil)
	g.current = g.root
	return nil
}

// Path returns the identifiers from the root to the current state.
func (g *Graph) Path() []game.StateID {
	var retVal []game.StateID
	for n := g.current; n != nil; n = n.parent {
		retVal = append(retVal, n.id)
	}
	for i, j := 0, len(retVal)-1; i < j; i, j = i+1, j-1 {
		retVal[i], retVal[j] = retVal[j], retVal[i]
	}
	return retVal
}

func (g *Graph) String() string { return fmt.Sprintf("%v", g.current) }

// transpositionSpace returns the memoized transposition space size at depth.
func (g *Graph) transpositionSpace(depth int64) (int64, error) {
	if v, ok := g.tspace[depth]; ok {
		return v, nil
	}
	r := hasher.NewNamespaced("tspace", g.params.Distribution, uint64(depth), uint32(g.params.Seed))
	v, err := g.params.Behaviour.TranspositionSpace(r, g.params, depth)
	if err != nil {
		return 0, errors.WithMessagef(err, "transposition space at depth %d", depth)
	}
	if v <= 0 {
		return 0, errors.Wrapf(game.ErrValidation, "transposition space at depth %d is %d, it must be positive", depth, v)
	}
	if limit := g.params.MaxTranspositionSpaceSize(); v > limit {
		return 0, errors.Wrapf(game.ErrIDOverflow, "transposition space at depth %d is %d, beyond the maximum %d", depth, v, limit)
	}
	g.tspace[depth] = v
	return v, nil
}
