package dot

import (
	"bytes"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(t *testing.T, mod func(*sssg.Config)) *sssg.Graph {
	conf := sssg.DefaultConfig()
	conf.MaxDepth = 3
	if mod != nil {
		mod(&conf)
	}
	g, err := sssg.New(conf)
	require.NoError(t, err)
	return g
}

func TestMarshalParses(t *testing.T) {
	g := graph(t, nil)
	s, err := Marshal(g, 3)
	require.NoError(t, err)
	assert.True(t, g.IsRoot())

	ast, err := gographviz.ParseString(s)
	require.NoError(t, err)
	parsed := gographviz.NewGraph()
	require.NoError(t, gographviz.Analyse(ast, parsed))
	assert.Len(t, parsed.Nodes.Nodes, 15)
	assert.Len(t, parsed.Edges.Edges, 14)
	assert.Equal(t, "box", parsed.Nodes.Lookup[`"0x0"`].Attrs["shape"])
}

func TestMarshalDepth(t *testing.T) {
	g := graph(t, func(c *sssg.Config) { c.MaxDepth = 10 })
	require.NoError(t, g.Make(1))
	s, err := Marshal(g, 1)
	require.NoError(t, err)

	ast, err := gographviz.ParseString(s)
	require.NoError(t, err)
	parsed := gographviz.NewGraph()
	require.NoError(t, gographviz.Analyse(ast, parsed))
	assert.Len(t, parsed.Nodes.Nodes, 3)
	assert.Equal(t, int64(1), g.Depth())

	_, err = Marshal(g, -1)
	assert.Equal(t, game.ErrValidation, errors.Cause(err))
}

func TestMarshalSymmetry(t *testing.T) {
	g := graph(t, func(c *sssg.Config) {
		c.MaxDepth = 1
		c.BranchingFactorBase = 4
		c.SymmetryFactor = 0.25
		c.SymmetryFrequency = 1
	})
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, 1))

	ast, err := gographviz.ParseString(buf.String())
	require.NoError(t, err)
	parsed := gographviz.NewGraph()
	require.NoError(t, gographviz.Analyse(ast, parsed))
	assert.Len(t, parsed.Nodes.Nodes, 2)
	assert.Len(t, parsed.Edges.Edges, 4)
}
