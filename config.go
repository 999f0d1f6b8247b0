package sssg

import (
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/hasher"
	"github.com/gorgonia/sssg/stateid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a synthetic graph. A graph is fully determined by its
// Config: two graphs built from equal configs are identical.
type Config struct {
	Seed          int64               `yaml:"seed" validate:"gte=0,lte=4294967295"`
	MaxDepth      int64               `yaml:"max_depth" validate:"gt=0"`
	Distribution  hasher.Distribution `yaml:"distribution"`
	RootTrueValue game.TrueValue      `yaml:"root_true_value" validate:"gte=-1,lte=1"`

	// branching
	BranchingFactorBase     int     `yaml:"branching_factor_base" validate:"gte=0"`
	BranchingFactorVariance float64 `yaml:"branching_factor_variance" validate:"gte=0"`
	TerminalChance          float64 `yaml:"terminal_chance" validate:"gte=0,lte=1"`
	TerminalMinimumDepth    int64   `yaml:"terminal_minimum_depth" validate:"gte=0"`

	// children
	ChildDepthMinimum int64   `yaml:"child_depth_minimum"`
	ChildDepthMaximum int64   `yaml:"child_depth_maximum" validate:"gtefield=ChildDepthMinimum"`
	LocalityGrouping  float64 `yaml:"locality_grouping" validate:"gte=0,lte=1"`

	// true values
	TrueValueForcedRatio      float64 `yaml:"true_value_forced_ratio" validate:"gte=0,lte=1"`
	TrueValueTieChance        float64 `yaml:"true_value_tie_chance" validate:"gte=0,lte=1"`
	TrueValueSimilarityChance float64 `yaml:"true_value_similarity_chance" validate:"gte=0,lte=1"`

	// symmetry
	SymmetryFactor    float64 `yaml:"symmetry_factor" validate:"gt=0,lte=1"`
	SymmetryFrequency float64 `yaml:"symmetry_frequency" validate:"gte=0,lte=1"`

	// heuristics
	HeuristicAccuracyBase    float64 `yaml:"heuristic_accuracy_base" validate:"gte=0,lte=1"`
	HeuristicDepthScaling    float64 `yaml:"heuristic_depth_scaling" validate:"gte=0,lte=1"`
	HeuristicLocalityScaling float64 `yaml:"heuristic_locality_scaling" validate:"gte=0,lte=1"`

	// RetainTree keeps every visited node alive. By default a node is reset when the
	// navigator leaves it through Undo, so only the current path is kept in memory.
	RetainTree bool `yaml:"retain_tree"`

	Behaviour Behaviour `yaml:"-" validate:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:                  255,
		Distribution:              hasher.Uniform,
		RootTrueValue:             game.Tie,
		BranchingFactorBase:       2,
		ChildDepthMinimum:         1,
		ChildDepthMaximum:         1,
		TrueValueForcedRatio:      0.1,
		TrueValueTieChance:        0.2,
		TrueValueSimilarityChance: 0.5,
		SymmetryFactor:            1,
		HeuristicAccuracyBase:     0.7,
		HeuristicDepthScaling:     0.5,
		HeuristicLocalityScaling:  0.5,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks every field of the config. The returned error wraps game.ErrValidation.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return errors.Wrapf(game.ErrValidation, "invalid config: %s", strings.Join(msgs, "; "))
		}
		return errors.Wrap(game.ErrValidation, err.Error())
	}
	if !c.Distribution.IsValid() {
		return errors.Wrapf(game.ErrValidation, "invalid config: unknown distribution %d", int(c.Distribution))
	}
	for _, f := range []float64{c.BranchingFactorVariance, c.TerminalChance, c.LocalityGrouping,
		c.TrueValueForcedRatio, c.TrueValueTieChance, c.TrueValueSimilarityChance,
		c.SymmetryFactor, c.SymmetryFrequency,
		c.HeuristicAccuracyBase, c.HeuristicDepthScaling, c.HeuristicLocalityScaling} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrap(game.ErrValidation, "invalid config: parameters must be finite")
		}
	}
	if _, err := stateid.NewLayout(c.MaxDepth); err != nil {
		return errors.WithMessage(err, "invalid config")
	}
	return nil
}

// IsValid returns true if the config passes Validate.
func (c Config) IsValid() bool { return c.Validate() == nil }

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gtefield":
		return fe.Field() + " must not be smaller than child_depth_minimum"
	}
	return fe.Field() + " failed " + fe.Tag()
}

// LoadConfig reads a YAML config. Keys absent from the document keep their default values.
func LoadConfig(r io.Reader) (Config, error) { return LoadConfigOnto(r, DefaultConfig()) }

// LoadConfigOnto reads a YAML config over base. Keys absent from the document keep the
// values of base, and so does the Behaviour.
func LoadConfigOnto(r io.Reader, base Config) (Config, error) {
	conf := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && err != io.EOF {
		return conf, errors.Wrap(game.ErrValidation, err.Error())
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Params is the immutable parameter set shared by all nodes of a graph.
type Params struct {
	Config
	Layout stateid.Layout
}

func newParams(conf Config) (*Params, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	l, err := stateid.NewLayout(conf.MaxDepth)
	if err != nil {
		return nil, err
	}
	conf.Behaviour = conf.Behaviour.withDefaults()
	return &Params{Config: conf, Layout: l}, nil
}

// MaxTranspositionSpaceSize is the largest transposition space any depth may have.
// Records lie in [0, size], so the maximum is the largest encodable record.
func (p *Params) MaxTranspositionSpaceSize() int64 { return p.Layout.MaxRecord }
