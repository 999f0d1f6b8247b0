package mcts

import (
	"sort"

	"github.com/gorgonia/sssg/game"
)

// fancySort sorts the list of nodes under a certain condition of evaluation (i.e. which player are we considering)
type fancySort struct {
	underEval game.Player
	l         []naughty
	t         *MCTS
}

func (l fancySort) Len() int      { return len(l.l) }
func (l fancySort) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }
func (l fancySort) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])

	// check if both have the same visits
	liVisits := li.Visits()
	ljVisits := lj.Visits()
	if liVisits != ljVisits {
		return liVisits > ljVisits
	}

	// same visit count. Evaluate
	if si, sj := li.Evaluate(l.underEval), lj.Evaluate(l.underEval); si != sj {
		return si > sj
	}
	return li.Action() < lj.Action()
}

// byAction sorts nodes by their action. The caller must hold the tree's lock.
type byAction struct {
	t *MCTS
	l []naughty
}

func (l byAction) Len() int { return len(l.l) }
func (l byAction) Less(i, j int) bool {
	return l.t.nodes[l.l[i]].Action() < l.t.nodes[l.l[j]].Action()
}
func (l byAction) Swap(i, j int) {
	l.l[i], l.l[j] = l.l[j], l.l[i]
}

func sortChildren(s sort.Interface) { sort.Stable(s) }

// score maps a value in [-1, 1] from MAX's point of view to [0, 1].
func score(v float64) float32 { return float32(v+1) / 2 }
