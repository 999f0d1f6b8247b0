// Package hasher provides the seeded hash sequences that all randomness in a synthetic
// graph is drawn from. A sequence is fully determined by (seed, namespace, key), so two
// sequences built from the same triple produce the same numbers in the same order.
package hasher

import (
	"math"
	"strconv"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

// Hasher is a counter-based hash sequence. It is not safe for concurrent use.
type Hasher struct {
	Distribution // default distribution for Int and Float

	prefix  []byte
	buf     []byte
	seed    uint32
	counter uint64
}

// New creates a sequence for the given key.
func New(dist Distribution, key uint64, seed uint32) *Hasher {
	return NewNamespaced("", dist, key, seed)
}

// NewNamespaced creates a sequence whose inputs cannot collide with those of New, or of any
// other namespace.
func NewNamespaced(ns string, dist Distribution, key uint64, seed uint32) *Hasher {
	prefix := make([]byte, 0, len(ns)+24)
	if ns != "" {
		prefix = append(prefix, ns...)
		prefix = append(prefix, ':')
	}
	prefix = strconv.AppendUint(prefix, key, 10)
	prefix = append(prefix, '.')
	return &Hasher{
		Distribution: dist,
		prefix:       prefix,
		buf:          make([]byte, 0, len(prefix)+20),
		seed:         seed,
	}
}

// Hash returns the next 64 bit value of the sequence.
func (h *Hasher) Hash() uint64 {
	h.buf = append(h.buf[:0], h.prefix...)
	h.buf = strconv.AppendUint(h.buf, h.counter, 10)
	h.counter++
	h1, _ := murmur3.Sum128WithSeed(h.buf, h.seed)
	return h1
}

// Reset rewinds the sequence to its first value.
func (h *Hasher) Reset() { h.counter = 0 }

// Counter returns the number of values drawn since the last reset.
func (h *Hasher) Counter() uint64 { return h.counter }

// Float draws a float in [low, high] with the default distribution.
func (h *Hasher) Float(low, high float64) (float64, error) {
	return h.FloatDist(low, high, h.Distribution)
}

// Int draws an integer in [low, high] with the default distribution.
func (h *Hasher) Int(low, high int64) (int64, error) {
	return h.IntDist(low, high, h.Distribution)
}

// FloatDist draws a float in [low, high] with the given distribution.
func (h *Hasher) FloatDist(low, high float64, d Distribution) (float64, error) {
	if low > high {
		return 0, errors.Wrapf(game.ErrValidation, "float range [%v, %v] is empty", low, high)
	}
	switch d {
	case Uniform:
		return h.uniform()*(high-low) + low, nil
	case Gaussian:
		p := h.uniform()
		switch {
		case p <= 0:
			p = math.SmallestNonzeroFloat64
		case p >= 1:
			p = 1 - epsilon
		}
		n := InverseNormal(p)
		v := (n+gaussianBound)/(2*gaussianBound)*(high-low) + low
		return clamp(v, low, high), nil
	}
	return 0, errors.Wrapf(game.ErrValidation, "unknown distribution %d", int(d))
}

// IntDist draws an integer in [low, high] with the given distribution.
func (h *Hasher) IntDist(low, high int64, d Distribution) (int64, error) {
	if low > high {
		return 0, errors.Wrapf(game.ErrValidation, "integer range [%d, %d] is empty", low, high)
	}
	switch d {
	case Uniform:
		width := uint64(high) - uint64(low)
		v := h.Hash()
		if width != math.MaxUint64 {
			v %= width + 1
		}
		return int64(uint64(low) + v), nil
	case Gaussian:
		f, err := h.FloatDist(float64(low), float64(high), Gaussian)
		if err != nil {
			return 0, err
		}
		v := int64(math.Round(f))
		// float64 cannot represent every int64, so rounding may step outside the range
		switch {
		case v < low:
			v = low
		case v > high:
			v = high
		}
		return v, nil
	}
	return 0, errors.Wrapf(game.ErrValidation, "unknown distribution %d", int(d))
}

func (h *Hasher) uniform() float64 { return float64(h.Hash()) / math.MaxUint64 }

func clamp(v, low, high float64) float64 {
	switch {
	case v < low:
		return low
	case v > high:
		return high
	}
	return v
}
