package gtp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	conf := sssg.DefaultConfig()
	conf.MaxDepth = 3
	g, err := sssg.New(conf)
	require.NoError(t, err)
	return New(g, "xx", "1", nil)
}

func Test_General(t *testing.T) {
	assert := assert.New(t)
	e := newEngine(t)
	var x string

	ch, ret := e.Start()
	ch <- "version"
	x = <-ret
	assert.Equal("= 1\n\n", x)

	ch <- "known_command hello"
	x = <-ret
	assert.Equal("= false\n\n", x)

	ch <- "known_command name"
	x = <-ret
	assert.Equal("= true\n\n", x)

	ch <- "completelyUnheardOfCommand xxx"
	x = <-ret
	assert.Equal("? Unknown command \"completelyunheardofcommand\"\n\n", x)

	ch <- "7 quit"
	x = <-ret
	assert.Equal("= 7 \n\n", x)
	_, ok := <-ret
	assert.False(ok)
}

func TestNavigation(t *testing.T) {
	assert := assert.New(t)
	e := newEngine(t)

	assert.Equal("= 0x0\n\n", e.Exec("id"))
	assert.Equal("= 0 1\n\n", e.Exec("actions"))
	assert.Equal("= 2\n\n", e.Exec("branching_factor"))
	assert.Equal("= true\n\n", e.Exec("is_root"))
	assert.Equal("= MAX\n\n", e.Exec("player"))
	assert.Equal("= tie\n\n", e.Exec("true_value"))
	assert.Equal("? cannot undo from 0x0: root state has no parent\n\n", e.Exec("undo"))

	resp := e.Exec("1 make 1")
	require.True(t, strings.HasPrefix(resp, "= 1 0x"), resp)
	child := strings.TrimSpace(strings.TrimPrefix(resp, "= 1 "))
	assert.Equal("= 1\n\n", e.Exec("depth"))
	assert.Equal("= MIN\n\n", e.Exec("player"))
	assert.Equal("= false\n\n", e.Exec("is_root"))

	assert.Equal("= \n\n", e.Exec("undo"))
	assert.Equal("= 0x0\n\n", e.Exec("id"))

	// set_root accepts what id prints
	assert.Equal("= "+child+"\n\n", e.Exec("set_root "+child))
	assert.Equal("= true\n\n", e.Exec("is_root"))
	assert.Equal("= 1\n\n", e.Exec("depth"))

	assert.Equal("", e.Exec("   "))
	assert.Equal("", e.Exec("# just a comment"))
	assert.Equal("? Not enough arguments for \"make\"\n\n", e.Exec("make"))
	assert.True(strings.HasPrefix(e.Exec("make x"), "? Unable to parse argument of make"))
	assert.True(strings.HasPrefix(e.Exec("make 9"), "? "))
}

func TestTerminal(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 3; i++ {
		assert.True(t, strings.HasPrefix(e.Exec("make_random"), "= 0x"))
	}
	assert.Equal(t, "= true\n\n", e.Exec("is_terminal"))
	assert.Equal(t, "= 0\n\n", e.Exec("branching_factor"))
	assert.True(t, strings.HasPrefix(e.Exec("make_random"), "? "))
}

func TestGenmove(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "? Unable to generate moves. No generator found\n\n", e.Exec("genmove"))

	e.Generate = func(ctx context.Context, st game.State) (int, error) {
		actions, err := st.Actions()
		if err != nil {
			return -1, err
		}
		return actions[len(actions)-1], nil
	}
	assert.Equal(t, "= 1\n\n", e.Exec("genmove"))
	assert.Equal(t, int64(1), e.State().Depth())
}

func TestServe(t *testing.T) {
	e := newEngine(t)
	in := strings.NewReader("1 name\n\n2 protocol_version\n3 quit\n4 name\n")
	var out bytes.Buffer
	require.NoError(t, e.Serve(in, &out))
	assert.Equal(t, "= 1 xx\n\n= 2 2\n\n= 3 \n\n", out.String())
}

func TestListCommands(t *testing.T) {
	e := newEngine(t)
	resp := e.Exec("list_commands")
	cmds := strings.Fields(strings.TrimPrefix(resp, "="))
	assert.Len(t, cmds, len(StandardLib()))
	assert.Contains(t, cmds, "set_root")
	assert.Equal(t, "actions", cmds[0])
}
