// Package stats walks a region of a graph breadth first and reports what it finds there, level by level.
package stats

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

// Level holds the counts of the distinct states found at one depth.
type Level struct {
	Depth     int64
	Nodes     int
	Terminals int
	Wins      int
	Ties      int
	Losses    int

	// Edges is the sum of the branching factors, Symmetric counts the edges that repeat a
	// sibling, Transpositions counts the edges to a state already reached through another parent.
	Edges          int
	Symmetric      int
	Transpositions int

	// HeuristicError is the sum of |heuristic value - true value| over non terminal states.
	HeuristicError float64
}

// MeanBranching is the mean branching factor of the non terminal states.
func (l Level) MeanBranching() float64 {
	if n := l.Nodes - l.Terminals; n > 0 {
		return float64(l.Edges) / float64(n)
	}
	return 0
}

// MeanHeuristicError is the mean distance between heuristic and true values of the non terminal states.
func (l Level) MeanHeuristicError() float64 {
	if n := l.Nodes - l.Terminals; n > 0 {
		return l.HeuristicError / float64(n)
	}
	return 0
}

// Report is the result of a census.
type Report struct {
	Start  game.StateID
	Levels []Level
	Nodes  int

	// Truncated is true when the census stopped at its node limit before the region was exhausted.
	Truncated bool
}

type census struct {
	maxDepth int64
	maxNodes int
}

// Option configures a census.
type Option func(*census)

// WithMaxDepth stops the census at the given absolute depth. States at that depth are counted
// but not expanded.
func WithMaxDepth(depth int64) Option { return func(c *census) { c.maxDepth = depth } }

// WithMaxNodes stops the census after that many distinct states.
func WithMaxNodes(n int) Option { return func(c *census) { c.maxNodes = n } }

// Census walks st breadth first from its current state. Every state is visited through
// SetRoot, so on return st is rooted at the state the census started from.
func Census(ctx context.Context, st game.State, opts ...Option) (report *Report, err error) {
	c := census{maxDepth: math.MaxInt64, maxNodes: 1 << 20}
	for _, opt := range opts {
		opt(&c)
	}
	if c.maxNodes < 1 || c.maxDepth < 0 {
		return nil, errors.Wrapf(game.ErrValidation, "bad census limits: depth %d nodes %d", c.maxDepth, c.maxNodes)
	}

	start := st.ID()
	levels := redblacktree.NewWith(utils.Int64Comparator)
	level := func(depth int64) *Level {
		if l, ok := levels.Get(depth); ok {
			return l.(*Level)
		}
		l := &Level{Depth: depth}
		levels.Put(depth, l)
		return l
	}

	seen := hashset.New(start)
	queue := linkedlistqueue.New()
	queue.Enqueue(start)
	report = &Report{Start: start}

	defer func() {
		if rerr := st.SetRoot(start); rerr != nil && err == nil {
			report, err = nil, errors.WithMessagef(rerr, "restoring %v after census", start)
		}
	}()
	for !queue.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, _ := queue.Dequeue()
		id := v.(game.StateID)
		if err := st.SetRoot(id); err != nil {
			return nil, errors.WithMessagef(err, "census at %v", id)
		}
		report.Nodes++

		l := level(st.Depth())
		l.Nodes++
		switch st.TrueValue() {
		case game.Win:
			l.Wins++
		case game.Tie:
			l.Ties++
		case game.Loss:
			l.Losses++
		}

		terminal, err := st.IsTerminal()
		if err != nil {
			return nil, err
		}
		if terminal {
			l.Terminals++
			continue
		}
		h, err := st.HeuristicValue()
		if err != nil {
			return nil, err
		}
		l.HeuristicError += math.Abs(h - float64(st.TrueValue()))

		children, err := childIDs(st)
		if err != nil {
			return nil, err
		}
		l.Edges += len(children)
		if st.Depth() >= c.maxDepth {
			continue
		}

		siblings := hashset.New()
		for _, child := range children {
			switch {
			case siblings.Contains(child):
				l.Symmetric++
				continue
			case seen.Contains(child):
				l.Transpositions++
			case seen.Size() >= c.maxNodes:
				report.Truncated = true
			default:
				seen.Add(child)
				queue.Enqueue(child)
			}
			siblings.Add(child)
		}
	}

	it := levels.Iterator()
	for it.Next() {
		report.Levels = append(report.Levels, *it.Value().(*Level))
	}
	return report, nil
}

func childIDs(st game.State) ([]game.StateID, error) {
	actions, err := st.Actions()
	if err != nil {
		return nil, err
	}
	retVal := make([]game.StateID, 0, len(actions))
	for _, a := range actions {
		if err := st.Make(a); err != nil {
			return nil, err
		}
		retVal = append(retVal, st.ID())
		if err := st.Undo(); err != nil {
			return nil, err
		}
	}
	return retVal, nil
}

var header = []string{
	"depth", "nodes", "terminals", "wins", "ties", "losses",
	"edges", "symmetric", "transpositions", "mean_branching", "mean_heuristic_error",
}

// WriteCSV writes one record per level.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range r.Levels {
		record := []string{
			strconv.FormatInt(l.Depth, 10),
			strconv.Itoa(l.Nodes),
			strconv.Itoa(l.Terminals),
			strconv.Itoa(l.Wins),
			strconv.Itoa(l.Ties),
			strconv.Itoa(l.Losses),
			strconv.Itoa(l.Edges),
			strconv.Itoa(l.Symmetric),
			strconv.Itoa(l.Transpositions),
			strconv.FormatFloat(l.MeanBranching(), 'f', 3, 64),
			strconv.FormatFloat(l.MeanHeuristicError(), 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
