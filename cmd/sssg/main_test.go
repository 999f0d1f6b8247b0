package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/presets"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgent(t *testing.T) {
	tests := []struct {
		desc string
		name string
	}{
		{"random", "random"},
		{"random:7", "random:7"},
		{"minimax:4", "minimax(4)"},
		{"mcts:500", "mcts(500)"},
		{"mcts:500:20", "mcts(500, 20ms)"},
	}
	for _, tt := range tests {
		a, err := parseAgent(tt.desc)
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.name, a.Name())
	}

	for _, bad := range []string{"", "alphazero", "minimax", "minimax:0", "minimax:x", "mcts:1:2:3", "mcts:0", "random:-1"} {
		_, err := parseAgent(bad)
		assert.Equal(t, game.ErrValidation, errors.Cause(err), bad)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestWalk(t *testing.T) {
	out := run(t, "walk", "--max-depth", "4")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[4], "terminal")
}

func TestStatsCSV(t *testing.T) {
	out := run(t, "stats", "--max-depth", "3", "--csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "depth,nodes"))
}

func TestPreset(t *testing.T) {
	defer func() { presetName = "" }()
	out := run(t, "walk", "--preset", "tictactoe", "--seed", "9", "--max-depth", "9")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, len(lines) >= 2 && len(lines) <= 10, out)
	assert.Contains(t, lines[len(lines)-1], "terminal")

	conf, err := loadConfig(walkCmd)
	require.NoError(t, err)
	assert.Equal(t, int64(9), conf.Seed)
	assert.NotNil(t, conf.Behaviour.Branching)
	g, err := sssg.New(conf)
	require.NoError(t, err)
	actions, err := g.Actions()
	require.NoError(t, err)
	assert.Len(t, actions, 9)
}

func TestPresetWithConfigFile(t *testing.T) {
	defer func() { presetName, configFile = "", "" }()
	configFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("seed: 7\n"), 0644))
	presetName = "tictactoe"

	conf, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)
	want := presets.TicTacToe()
	assert.Equal(t, int64(7), conf.Seed)
	assert.Equal(t, want.MaxDepth, conf.MaxDepth)
	assert.Equal(t, want.TerminalMinimumDepth, conf.TerminalMinimumDepth)
	assert.Equal(t, want.SymmetryFrequency, conf.SymmetryFrequency)
	assert.Equal(t, want.TrueValueForcedRatio, conf.TrueValueForcedRatio)

	g, err := sssg.New(conf)
	require.NoError(t, err)
	actions, err := g.Actions()
	require.NoError(t, err)
	assert.Len(t, actions, 9)
}

func TestStatsTable(t *testing.T) {
	out := run(t, "stats", "--max-depth", "3", "--csv=false")
	assert.Contains(t, out, "transpositions")
	assert.Contains(t, out, "heuristic error")
	var rows int
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(strings.Trim(line, "│ "))
		if len(fields) > 0 && fields[0] >= "0" && fields[0] <= "3" {
			rows++
		}
	}
	assert.Equal(t, 4, rows, out)
}
