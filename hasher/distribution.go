package hasher

import (
	"strings"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

// Distribution selects how raw hashes are shaped into numbers.
type Distribution int

const (
	Uniform Distribution = iota
	Gaussian
)

func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	case Gaussian:
		return "gaussian"
	}
	return "UNKNOWN DISTRIBUTION"
}

// IsValid returns true if d is a known distribution.
func (d Distribution) IsValid() bool { return d == Uniform || d == Gaussian }

func (d Distribution) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, errors.Wrapf(game.ErrValidation, "unknown distribution %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Distribution) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "uniform", "":
		*d = Uniform
	case "gaussian", "normal":
		*d = Gaussian
	default:
		return errors.Wrapf(game.ErrValidation, "unknown distribution %q", string(text))
	}
	return nil
}
