package sssg

import "github.com/gorgonia/sssg/game"

// OutputEncoder encodes the games played in an arena as whatever.
//
// An example OutputEncoder is the gif Encoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}

// match is the MetaState of a game being played in an arena.
type match struct {
	st       game.State
	name     string
	number   int
	ply      int
	last     game.PlayerMove
	hasMoved bool
}

func (m *match) State() game.State { return m.st }
func (m *match) Name() string       { return m.name }
func (m *match) GameNumber() int    { return m.number }
func (m *match) Ply() int           { return m.ply }

func (m *match) LastMove() (game.PlayerMove, bool) { return m.last, m.hasMoved }

func (m *match) moved(pm game.PlayerMove) {
	m.last = pm
	m.hasMoved = true
	m.ply++
}
