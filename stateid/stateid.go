// Package stateid packs a state's intrinsic attributes into a 63 bit identifier.
//
// From the most significant bit down, an identifier is laid out as
//
//	true value (2 bits) | player (1 bit) | depth (DepthBits) | record (RecordBits)
//
// where DepthBits is the bit length of the maximum depth and the record takes whatever
// is left. The true value is stored in two's complement, so Tie is 00, Win is 01 and
// Loss is 11. MAX is 0 and MIN is 1. The pattern 10 is never produced.
package stateid

import (
	"fmt"
	"math/bits"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

const (
	TotalBits     = 63
	TrueValueBits = 2
	PlayerBits    = 1

	// fieldBits is the budget shared by depth and record.
	fieldBits = TotalBits - TrueValueBits - PlayerBits
)

// Fields are the attributes encoded into a StateID.
type Fields struct {
	TrueValue game.TrueValue
	Player    game.Player
	Depth     int64
	Record    int64
}

func (f Fields) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{TrueValue: %v Player: %v Depth: %d Record: %d}", f.TrueValue, f.Player, f.Depth, f.Record)
}

// Layout is the bit partition for a given maximum depth.
type Layout struct {
	MaxDepth   int64
	MaxRecord  int64
	DepthBits  uint
	RecordBits uint
}

// NewLayout computes the bit partition for maxDepth.
func NewLayout(maxDepth int64) (Layout, error) {
	if maxDepth <= 0 {
		return Layout{}, errors.Wrapf(game.ErrValidation, "max depth must be positive, got %d", maxDepth)
	}
	depthBits := uint(bits.Len64(uint64(maxDepth)))
	if depthBits >= fieldBits {
		return Layout{}, errors.Wrapf(game.ErrValidation, "max depth %d needs %d bits, leaving no room for records", maxDepth, depthBits)
	}
	recordBits := fieldBits - depthBits
	return Layout{
		MaxDepth:   maxDepth,
		MaxRecord:  int64(1)<<recordBits - 1,
		DepthBits:  depthBits,
		RecordBits: recordBits,
	}, nil
}

// RecordSpace is the number of distinct records, MaxRecord+1.
func (l Layout) RecordSpace() int64 { return l.MaxRecord + 1 }

func (l Layout) playerShift() uint    { return l.DepthBits + l.RecordBits }
func (l Layout) trueValueShift() uint { return l.playerShift() + PlayerBits }

// Encode packs f into an identifier.
func (l Layout) Encode(f Fields) (game.StateID, error) {
	if !f.TrueValue.IsValid() {
		return 0, errors.Wrapf(game.ErrValidation, "true value %d is not one of -1, 0, 1", f.TrueValue)
	}
	if f.Player != game.Max && f.Player != game.Min {
		return 0, errors.Wrapf(game.ErrValidation, "unknown player %d", uint8(f.Player))
	}
	if f.Depth < 0 || f.Depth > l.MaxDepth {
		return 0, errors.Wrapf(game.ErrIDOverflow, "depth %d outside [0, %d]", f.Depth, l.MaxDepth)
	}
	if f.Record < 0 || f.Record > l.MaxRecord {
		return 0, errors.Wrapf(game.ErrIDOverflow, "record %d outside [0, %d]", f.Record, l.MaxRecord)
	}

	tv := uint64(f.TrueValue) & 0x3
	id := tv<<l.trueValueShift() |
		uint64(f.Player)<<l.playerShift() |
		uint64(f.Depth)<<l.RecordBits |
		uint64(f.Record)
	return game.StateID(id), nil
}

// Decode unpacks an identifier.
func (l Layout) Decode(id game.StateID) (Fields, error) {
	v := uint64(id)
	if v>>TotalBits != 0 {
		return Fields{}, errors.Wrapf(game.ErrIDOverflow, "id %v is wider than %d bits", id, TotalBits)
	}

	var tv game.TrueValue
	switch v >> l.trueValueShift() {
	case 0:
		tv = game.Tie
	case 1:
		tv = game.Win
	case 3:
		tv = game.Loss
	default:
		return Fields{}, errors.Wrapf(game.ErrValidation, "id %v carries an invalid true value", id)
	}

	depth := int64(v >> l.RecordBits & (1<<l.DepthBits - 1))
	if depth > l.MaxDepth {
		return Fields{}, errors.Wrapf(game.ErrIDOverflow, "id %v has depth %d beyond %d", id, depth, l.MaxDepth)
	}
	return Fields{
		TrueValue: tv,
		Player:    game.Player(v >> l.playerShift() & 1),
		Depth:     depth,
		Record:    int64(v & uint64(l.MaxRecord)),
	}, nil
}
