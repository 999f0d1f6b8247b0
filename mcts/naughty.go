package mcts

// naughty is an index into the node arena, essentially *Node
type naughty int

func (n naughty) isValid() bool { return n >= 0 }

const (
	nilNode naughty = -1
)
