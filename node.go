package sssg

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
	"github.com/gorgonia/sssg/stateid"
	"github.com/pkg/errors"
)

// Node is a single state of a synthetic graph. Everything but the identifier and the
// fields it encodes is derived lazily from the node's own hash sequence, and can be
// dropped with Reset and derived again.
type Node struct {
	id game.StateID
	stateid.Fields

	parent *Node
	g      *Graph
	rng    *hasher.Hasher

	*expansion // nil until generated
}

// expansion is everything a node derives from its hash sequence.
type expansion struct {
	branching int
	heuristic float64
	children  []*Node
}

func (g *Graph) newNode(id game.StateID, f stateid.Fields, parent *Node) *Node {
	return &Node{
		id:     id,
		Fields: f,
		parent: parent,
		g:      g,
		rng:    hasher.New(g.params.Distribution, uint64(id), uint32(g.params.Seed)),
	}
}

func (n *Node) ID() game.StateID { return n.id }

// Parent returns the node this one was reached from. Roots have no parent.
func (n *Node) Parent() *Node { return n.parent }

func (n *Node) IsRoot() bool { return n.parent == nil }

// IsGenerated returns true if the derived state of the node is present.
func (n *Node) IsGenerated() bool { return n.expansion != nil }

func (n *Node) BranchingFactor() (int, error) {
	if err := n.generate(); err != nil {
		return 0, err
	}
	return n.branching, nil
}

func (n *Node) HeuristicValue() (float64, error) {
	if err := n.generate(); err != nil {
		return 0, err
	}
	return n.heuristic, nil
}

// IsTerminal returns true if the node is at the maximum depth or has no children.
func (n *Node) IsTerminal() (bool, error) {
	if n.Depth >= n.g.params.MaxDepth {
		return true, nil
	}
	bf, err := n.BranchingFactor()
	if err != nil {
		return false, err
	}
	return bf < 1, nil
}

// Children returns the children of the node. Symmetric children share the same *Node.
func (n *Node) Children() ([]*Node, error) {
	if err := n.generate(); err != nil {
		return nil, err
	}
	return n.children, nil
}

// Actions returns the indices of the children.
func (n *Node) Actions() ([]int, error) {
	children, err := n.Children()
	if err != nil {
		return nil, err
	}
	retVal := make([]int, len(children))
	for i := range retVal {
		retVal[i] = i
	}
	return retVal, nil
}

// Reset drops the derived state and rewinds the hash sequence.
func (n *Node) Reset() {
	n.expansion = nil
	n.rng.Reset()
}

// Params returns the parameters handed to behaviour functions for this node.
func (n *Node) Params() (StateParams, error) {
	space, err := n.g.transpositionSpace(n.Depth)
	if err != nil {
		return StateParams{}, err
	}
	return StateParams{
		Params:             n.g.params,
		ID:                 n.id,
		TrueValue:          n.TrueValue,
		Player:             n.Player,
		Depth:              n.Depth,
		Record:             n.Record,
		TranspositionSpace: space,
	}, nil
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{ID: %v TrueValue: %v Player: %v Depth: %d Record: %d", n.id, n.TrueValue, n.Player, n.Depth, n.Record)
	if n.expansion != nil {
		fmt.Fprintf(s, " Branching: %d Heuristic: %.3f", n.branching, n.heuristic)
	}
	fmt.Fprint(s, "}")
}

// generate derives the branching factor, then the heuristic value, then the children.
// The order is fixed, so a node replays the same draws however generation is triggered.
// On error the node is left ungenerated with its sequence rewound.
func (n *Node) generate() (err error) {
	if n.expansion != nil {
		return nil
	}
	defer func() {
		if err != nil {
			n.rng.Reset()
		}
	}()

	p, err := n.Params()
	if err != nil {
		return err
	}
	b := n.g.params.Behaviour
	e := new(expansion)
	if e.branching, err = b.Branching(n.rng, p); err != nil {
		return errors.WithMessagef(err, "branching factor of %v", n.id)
	}
	if e.heuristic, err = b.HeuristicValue(n.rng, p); err != nil {
		return errors.WithMessagef(err, "heuristic value of %v", n.id)
	}
	if n.Depth < n.g.params.MaxDepth && e.branching >= 1 {
		if e.children, err = n.generateChildren(p, e.branching); err != nil {
			return err
		}
	}
	n.expansion = e
	return nil
}

func (n *Node) generateChildren(p StateParams, bf int) ([]*Node, error) {
	unique := bf
	roll, err := n.rng.Float(0, 1)
	if err != nil {
		return nil, err
	}
	if roll < p.SymmetryFrequency {
		unique = int(math.Floor(float64(bf) * p.SymmetryFactor))
		if unique < 1 {
			unique = 1
		}
	}

	b := p.Behaviour
	children := make([]*Node, bf)
	var siblings SiblingInfo
	for i := 0; i < unique; i++ {
		var f stateid.Fields
		f.Player = n.Player.Opponent()

		if f.TrueValue, err = b.ChildTrueValue(n.rng, p, bf, siblings); err != nil {
			return nil, errors.WithMessagef(err, "true value of child %d of %v", i, n.id)
		}
		if !f.TrueValue.IsValid() {
			return nil, errors.Wrapf(game.ErrValidation, "child %d of %v has true value %d", i, n.id, f.TrueValue)
		}
		siblings.add(f.TrueValue.Relative(n.Player))

		if f.Depth, err = b.ChildDepth(n.rng, p); err != nil {
			return nil, errors.WithMessagef(err, "depth of child %d of %v", i, n.id)
		}
		if f.Depth < 0 || f.Depth > p.MaxDepth {
			return nil, errors.Wrapf(game.ErrIDOverflow, "child %d of %v has depth %d outside [0, %d]", i, n.id, f.Depth, p.MaxDepth)
		}

		space, err := n.g.transpositionSpace(f.Depth)
		if err != nil {
			return nil, err
		}
		if f.Record, err = placeRecord(n.rng, n.Record, p.TranspositionSpace, space, p.LocalityGrouping); err != nil {
			return nil, err
		}

		id, err := p.Layout.Encode(f)
		if err != nil {
			return nil, errors.WithMessagef(err, "child %d of %v", i, n.id)
		}
		children[i] = n.g.newNode(id, f, n)
	}
	for i := unique; i < bf; i++ {
		children[i] = children[i%unique]
	}
	return children, nil
}

// placeRecord scales record from a space of parentSpace records into one of childSpace
// records, then draws around it. locality 1 keeps the scaled record, locality 0 spreads
// the draw over the whole child space.
func placeRecord(r Rand, record, parentSpace, childSpace int64, locality float64) (int64, error) {
	centre, err := scaleRecord(record, parentSpace, childSpace)
	if err != nil {
		return 0, err
	}
	margin := float64(childSpace-1) * (1 - locality) / 2
	low := centre - int64(math.Ceil(margin))
	high := centre + int64(math.Floor(margin))
	v, err := r.Int(low, high)
	if err != nil {
		return 0, err
	}
	// the maximum record is inclusive
	m := childSpace + 1
	return (v%m + m) % m, nil
}

// scaleRecord returns floor(record*childSpace/parentSpace) without going through float64.
func scaleRecord(record, parentSpace, childSpace int64) (int64, error) {
	if record < 0 || parentSpace <= 0 || childSpace < 0 {
		return 0, errors.Wrapf(game.ErrValidation, "cannot scale record %d from a space of %d into one of %d", record, parentSpace, childSpace)
	}
	if parentSpace == childSpace {
		return record, nil
	}
	hi, lo := bits.Mul64(uint64(record), uint64(childSpace))
	if hi >= uint64(parentSpace) {
		return 0, errors.Wrapf(game.ErrIDOverflow, "record %d does not fit a space of %d", record, parentSpace)
	}
	q, _ := bits.Div64(hi, lo, uint64(parentSpace))
	if q > math.MaxInt64 {
		return 0, errors.Wrapf(game.ErrIDOverflow, "record %d scales beyond the identifier space", record)
	}
	return int64(q), nil
}
