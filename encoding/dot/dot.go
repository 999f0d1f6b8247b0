// Package dot exports a region of a graph in the graphviz DOT language.
package dot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

const graphName = "G"

var colours = map[game.TrueValue]string{
	game.Win:  "darkgreen",
	game.Tie:  "gray40",
	game.Loss: "firebrick",
}

type exporter struct {
	g     *gographviz.Graph
	seen  map[game.StateID]struct{}
	depth int64
}

// Marshal renders every state within depth plies of the current state of st. States reached
// more than once are drawn once. st is left where it was.
func Marshal(st game.State, depth int) (string, error) {
	if depth < 0 {
		return "", errors.Wrapf(game.ErrValidation, "cannot export %d plies", depth)
	}
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	e := &exporter{
		g:     g,
		seen:  make(map[game.StateID]struct{}),
		depth: st.Depth() + int64(depth),
	}
	if err := e.visit(st); err != nil {
		return "", err
	}
	return g.String(), nil
}

// Encode writes the output of Marshal to w.
func Encode(w io.Writer, st game.State, depth int) error {
	s, err := Marshal(st, depth)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func name(id game.StateID) string { return strconv.Quote(id.String()) }

func (e *exporter) visit(st game.State) error {
	id := st.ID()
	e.seen[id] = struct{}{}

	terminal, err := st.IsTerminal()
	if err != nil {
		return err
	}
	label := fmt.Sprintf("%v\n%v %v", id, st.Player(), st.TrueValue())
	attrs := map[string]string{
		"shape": "ellipse",
		"color": colours[st.TrueValue()],
	}
	if st.Player() == game.Max {
		attrs["shape"] = "box"
	}
	if terminal {
		attrs["peripheries"] = "2"
	} else {
		h, err := st.HeuristicValue()
		if err != nil {
			return err
		}
		label = fmt.Sprintf("%s\nh=%.3f", label, h)
	}
	attrs["label"] = strconv.Quote(label)
	if err := e.g.AddNode(graphName, name(id), attrs); err != nil {
		return err
	}
	if terminal || st.Depth() >= e.depth {
		return nil
	}

	actions, err := st.Actions()
	if err != nil {
		return err
	}
	for _, a := range actions {
		if err := st.Make(a); err != nil {
			return err
		}
		child := st.ID()
		if _, ok := e.seen[child]; !ok {
			err = e.visit(st)
		}
		if uerr := st.Undo(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return err
		}
		edge := map[string]string{"label": strconv.Quote(strconv.Itoa(a))}
		if err := e.g.AddEdge(name(id), name(child), true, edge); err != nil {
			return err
		}
	}
	return nil
}
