// Package mcts implements Monte Carlo tree search over a game.State.
//
// The tree is arena allocated: nodes live in one slice and refer to each other by index.
package mcts

import (
	"sync"
	"time"

	"github.com/gorgonia/sssg/game"
)

// Config is the structure to configure the search.
type Config struct {
	// PUCT is the exploration constant of the upper confidence bound. Between 0 and 4.
	PUCT    float32
	Timeout time.Duration // 0 means no time limit
	Budget  int32         // iteration budget

	// Playouts is the number of random plies played out from a newly expanded state before it
	// is evaluated. 0 evaluates the state's own heuristic value.
	Playouts int
}

func DefaultConfig() Config {
	return Config{
		PUCT:    1.41,
		Timeout: 100 * time.Millisecond,
		Budget:  10000,
	}
}

func (c Config) IsValid() bool {
	return c.PUCT > 0 && c.PUCT <= 4 && c.Budget > 0 && c.Playouts >= 0 && c.Timeout >= 0
}

// MCTS holds the search tree. The goal is to build MCTS without much pointer chasing.
type MCTS struct {
	sync.RWMutex
	Config

	nodes    []Node
	children [][]naughty
	root     naughty

	iterations int32
	lumberjack
}

func New(conf Config) *MCTS {
	return &MCTS{
		Config:     conf,
		nodes:      make([]Node, 0, 12288),
		children:   make([][]naughty, 0, 12288),
		root:       nilNode,
		lumberjack: makeLumberJack(),
	}
}

// New creates a new node reached by action, for a state where player is to move.
func (t *MCTS) New(action int, id game.StateID, player game.Player, prior float32) naughty {
	t.Lock()
	n := naughty(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		action: int32(action),
		state:  id,
		player: player,
		status: uint32(Active),
		id:     n,
		tree:   t,
	})
	t.nodes[n].setPrior(prior)
	t.children = append(t.children, nil)
	t.Unlock()
	return n
}

// Nodes returns the number of nodes in the tree.
func (t *MCTS) Nodes() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.nodes)
}

// Iterations returns the number of iterations of the last search.
func (t *MCTS) Iterations() int32 { return t.iterations }

// Root returns the root of the last search.
func (t *MCTS) Root() *Node {
	if t.root == nilNode {
		return nil
	}
	return t.nodeFromNaughty(t.root)
}

// Reset drops the tree.
func (t *MCTS) Reset() {
	t.Lock()
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.root = nilNode
	t.iterations = 0
	t.Unlock()
	t.lumberjack.Reset()
}

func (t *MCTS) nodeFromNaughty(ptr naughty) *Node {
	t.RLock()
	retVal := &t.nodes[int(ptr)]
	t.RUnlock()
	return retVal
}

// Children returns the children of a node.
func (t *MCTS) Children(of naughty) []naughty {
	t.RLock()
	retVal := t.children[of]
	t.RUnlock()
	return retVal
}

func (t *MCTS) addChild(parent, child naughty) {
	t.Lock()
	t.children[parent] = append(t.children[parent], child)
	t.Unlock()
}
