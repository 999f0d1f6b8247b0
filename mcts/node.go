package mcts

import (
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/gorgonia/sssg/game"
)

type Status uint32

const (
	Invalid Status = iota
	Active
	Expanded
	Terminal
)

func (a Status) String() string {
	switch a {
	case Invalid:
		return "Invalid"
	case Active:
		return "Active"
	case Expanded:
		return "Expanded"
	case Terminal:
		return "Terminal"
	}
	return "UNKNOWN STATUS"
}

type Node struct {
	// atomic access only
	action int32  // action that leads to this node from its parent
	visits uint32 // N(s, a) in the literature
	status uint32

	// float32s
	maxScores uint32 // accumulated scores, from MAX's point of view, in [0, 1]
	prior     uint32 // evaluation of the state when it was first seen

	state  game.StateID
	player game.Player // player to move at this node

	id   naughty
	tree *MCTS
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v State: %v Action: %v Player: %v Visits: %v Score: %.3f Prior: %.3f Status: %v}",
		n.id, n.state, n.Action(), n.player, n.Visits(), n.Score(), n.Prior(), n.Status())
}

// Action gets the action associated with the node
func (n *Node) Action() int { return int(atomic.LoadInt32(&n.action)) }

// State returns the identifier of the state the node represents.
func (n *Node) State() game.StateID { return n.state }

// Player returns the player to move.
func (n *Node) Player() game.Player { return n.player }

func (n *Node) Visits() uint32 { return atomic.LoadUint32(&n.visits) }

func (n *Node) Status() Status { return Status(atomic.LoadUint32(&n.status)) }

// MaxScores returns the accumulated scores for MAX.
func (n *Node) MaxScores() float32 {
	return math32.Float32frombits(atomic.LoadUint32(&n.maxScores))
}

// Score returns the mean score for MAX, or the prior if the node has not been visited.
func (n *Node) Score() float32 {
	visits := n.Visits()
	if visits == 0 {
		return n.Prior()
	}
	return n.MaxScores() / float32(visits)
}

// Prior returns the first evaluation of the node, from MAX's point of view.
func (n *Node) Prior() float32 { return math32.Float32frombits(atomic.LoadUint32(&n.prior)) }

func (n *Node) setPrior(v float32) { atomic.StoreUint32(&n.prior, math32.Float32bits(v)) }

func (n *Node) ID() int { return int(n.id) }

// IsNotVisited returns true if this node hasn't ever been visited
func (n *Node) IsNotVisited() bool { return n.Visits() == 0 }

// IsExpanded returns true if the children of the node have been added to the tree.
func (n *Node) IsExpanded() bool { return n.Status() == Expanded }

// IsTerminal returns true if the node is known to be terminal.
func (n *Node) IsTerminal() bool { return n.Status() == Terminal }

func (n *Node) markExpanded() { atomic.StoreUint32(&n.status, uint32(Expanded)) }
func (n *Node) markTerminal() { atomic.StoreUint32(&n.status, uint32(Terminal)) }

// Update accumulates a score given from MAX's point of view.
func (n *Node) Update(score float32) {
	n.tree.Lock()
	atomic.AddUint32(&n.visits, 1)
	scores := n.MaxScores() + score
	atomic.StoreUint32(&n.maxScores, math32.Float32bits(scores))
	n.tree.Unlock()
}

// Evaluate returns the mean score of the node for the given player.
func (n *Node) Evaluate(player game.Player) float32 {
	score := n.Score()
	if player == game.Min {
		return 1 - score
	}
	return score
}

// Select selects the child with the highest upper confidence bound for the player to move.
//
// Unvisited children are tried first, best prior first.
func (n *Node) Select() naughty {
	tree := n.tree
	of := n.player
	children := tree.Children(n.id)

	var parentVisits uint32
	for _, kid := range children {
		parentVisits += tree.nodeFromNaughty(kid).Visits()
	}

	// U(s, a) = Q(s, a) + c * sqrt(ln N(s) / N(s, a))
	best := nilNode
	bestValue := math32.Inf(-1)
	logParent := math32.Log(float32(parentVisits) + 1)
	for _, kid := range children {
		child := tree.nodeFromNaughty(kid)
		visits := child.Visits()
		var usa float32
		if visits == 0 {
			usa = 2 + child.Evaluate(of)
		} else {
			usa = child.Evaluate(of) + tree.PUCT*math32.Sqrt(logParent/float32(visits))
		}
		if usa > bestValue {
			bestValue = usa
			best = kid
		}
	}
	if best == nilNode {
		panic("Cannot return nil")
	}
	return best
}

// BestChild returns the best child for the player to move. Note that fancySort has all sorts of heuristics
func (n *Node) BestChild() naughty {
	tree := n.tree
	children := append([]naughty(nil), tree.Children(n.id)...)
	if len(children) == 0 {
		return nilNode
	}
	sortChildren(fancySort{underEval: n.player, l: children, t: tree})
	return children[0]
}

// countChildren counts the number of children node a node has and number of grandkids recursively
func (n *Node) countChildren() (retVal int) {
	tree := n.tree
	for _, kid := range tree.Children(n.id) {
		retVal += tree.nodeFromNaughty(kid).countChildren() + 1
	}
	return
}
