package game

import (
	"fmt"
)

// Player represents the side to move at a state.
type Player uint8

const (
	Max Player = iota
	Min
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == Max {
		return Min
	}
	return Max
}

func (p Player) Format(s fmt.State, c rune) {
	switch c {
	case 's': // used in tables
		switch p {
		case Max:
			fmt.Fprint(s, "+")
		case Min:
			fmt.Fprint(s, "-")
		}
	default:
		fmt.Fprint(s, p.String())
	}
}

func (p Player) String() string {
	switch p {
	case Max:
		return "MAX"
	case Min:
		return "MIN"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

// TrueValue is the game-theoretic outcome of a state, from MAX's perspective.
type TrueValue int8

const (
	Loss TrueValue = -1
	Tie  TrueValue = 0
	Win  TrueValue = 1
)

// IsValid returns true if tv is one of Loss, Tie or Win.
func (tv TrueValue) IsValid() bool { return tv >= Loss && tv <= Win }

// Relative returns the value as seen by p. MIN sees MAX's win as a loss.
func (tv TrueValue) Relative(p Player) TrueValue {
	if p == Min {
		return -tv
	}
	return tv
}

func (tv TrueValue) String() string {
	switch tv {
	case Loss:
		return "loss"
	case Tie:
		return "tie"
	case Win:
		return "win"
	}
	return fmt.Sprintf("TrueValue(%d)", int8(tv))
}

// StateID is the 63 bit identifier of a state. It is the only durable representation of a node.
type StateID uint64

func (id StateID) String() string { return fmt.Sprintf("%#x", uint64(id)) }

// State is any navigable game graph. The current state is the one the navigator is sitting on.
//
// Actions are indices into the children list of the current state.
type State interface {
	// These methods describe the current state
	ID() StateID
	Player() Player
	Depth() int64
	TrueValue() TrueValue
	HeuristicValue() (float64, error)
	IsTerminal() (bool, error)
	IsRoot() bool

	// interactions
	Actions() ([]int, error) // valid actions from the current state
	Make(action int) error   // move to the child at the given index
	MakeRandom() error       // move to a pseudorandomly chosen child
	Undo() error             // move back to the parent
	SetRoot(id StateID) error
}

// PlayerMove is a tuple indicating the player and the action taken.
type PlayerMove struct {
	Player
	Action int
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Action == other.Action
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%d", p.Player, p.Action) }

// MetaState is a game in progress: the state being played on, and who is playing it.
type MetaState interface {
	State() State
	Name() string
	GameNumber() int
	Ply() int
	LastMove() (PlayerMove, bool)
}
