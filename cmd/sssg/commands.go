package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/encoding/dot"
	"github.com/gorgonia/sssg/encoding/gif"
	"github.com/gorgonia/sssg/game"
	"github.com/gorgonia/sssg/gtp"
	"github.com/gorgonia/sssg/mcts"
	"github.com/gorgonia/sssg/stats"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	walkCmd = &cobra.Command{
		Use:   "walk",
		Short: "Random walk from the root to a terminal state",
		Args:  cobra.NoArgs,
		RunE:  runWalk,
	}
	walkPlies int

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Breadth first census of the graph, per depth",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	statsDepth int64
	statsNodes int
	statsCSV   bool

	dotCmd = &cobra.Command{
		Use:   "dot",
		Short: "Export the first plies of the graph in the graphviz DOT language",
		Args:  cobra.NoArgs,
		RunE:  runDot,
	}
	dotDepth  int
	dotOutput string

	arenaCmd = &cobra.Command{
		Use:   "arena",
		Short: "Play agents against each other",
		Long: `Play agents against each other. Agents are written as
  random[:seed]        picks uniformly at random
  minimax:depth        alpha-beta search to a fixed depth
  mcts:budget[:ms]     Monte Carlo tree search with an iteration budget and optional time limit`,
		Args: cobra.NoArgs,
		RunE: runArena,
	}
	agentA, agentB string
	games, workers int
	maxPlies       int
	statsFile      string
	gifFile        string

	gtpCmd = &cobra.Command{
		Use:   "gtp",
		Short: "Speak the text protocol on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE:  runGTP,
	}
	gtpAgent string
)

func init() {
	walkCmd.Flags().IntVar(&walkPlies, "plies", 0, "stop after this many plies (0 walks to a terminal state)")

	statsCmd.Flags().Int64Var(&statsDepth, "depth", 6, "deepest level to expand")
	statsCmd.Flags().IntVar(&statsNodes, "nodes", 1<<20, "maximum number of states to visit")
	statsCmd.Flags().BoolVar(&statsCSV, "csv", false, "write CSV instead of a table")

	dotCmd.Flags().IntVar(&dotDepth, "depth", 3, "number of plies to export")
	dotCmd.Flags().StringVarP(&dotOutput, "output", "o", "", "output file (default stdout)")

	f := arenaCmd.Flags()
	f.StringVar(&agentA, "a", "mcts:1000", "first agent")
	f.StringVar(&agentB, "b", "random", "second agent")
	f.IntVar(&games, "games", 10, "number of games")
	f.IntVar(&workers, "workers", 4, "number of games played at once")
	f.IntVar(&maxPlies, "max-plies", 0, "stop games after this many plies and score them by heuristic (0 plays to the end)")
	f.StringVar(&statsFile, "stats", "", "write the per agent statistics to this CSV file")
	f.StringVar(&gifFile, "gif", "", "also play one recorded game and write it to this GIF file")

	gtpCmd.Flags().StringVar(&gtpAgent, "agent", "mcts:1000", "agent used for genmove")
}

func runWalk(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	for ply := 0; ; ply++ {
		terminal, err := g.IsTerminal()
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%3d %v %v %v", g.Depth(), g.ID(), g.Player(), p.value(g.TrueValue()))
		if terminal {
			p.Printf("%s %s\n", line, p.bold("terminal"))
			return nil
		}
		h, err := g.HeuristicValue()
		if err != nil {
			return err
		}
		bf, err := g.BranchingFactor()
		if err != nil {
			return err
		}
		p.Printf("%s %s\n", line, p.faint("h=%+.3f bf=%d", h, bf))
		if walkPlies > 0 && ply >= walkPlies {
			return nil
		}
		if err = g.MakeRandom(); err != nil {
			return err
		}
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	start := time.Now()
	r, err := stats.Census(cmd.Context(), g, stats.WithMaxDepth(statsDepth), stats.WithMaxNodes(statsNodes))
	if err != nil {
		return err
	}
	log.Printf("visited %d states in %v", r.Nodes, time.Since(start).Round(time.Millisecond))
	if statsCSV {
		return r.WriteCSV(cmd.OutOrStdout())
	}

	p := newPrinter(cmd.OutOrStdout())
	rows := make([][]string, 0, len(r.Levels))
	for _, l := range r.Levels {
		rows = append(rows, []string{
			strconv.FormatInt(l.Depth, 10),
			strconv.Itoa(l.Nodes),
			strconv.Itoa(l.Terminals),
			strconv.Itoa(l.Wins),
			strconv.Itoa(l.Ties),
			strconv.Itoa(l.Losses),
			fmt.Sprintf("%.2f", l.MeanBranching()),
			strconv.Itoa(l.Symmetric),
			strconv.Itoa(l.Transpositions),
			fmt.Sprintf("%.3f", l.MeanHeuristicError()),
		})
	}
	p.writeTable([]string{"depth", "nodes", "terminal", "win", "tie", "loss", "branching", "symmetric", "transpositions", "heuristic error"}, rows)
	if r.Truncated {
		p.Printf("%s\n", p.bold("stopped after %d states", r.Nodes))
	}
	return nil
}

func runDot(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	if dotOutput == "" {
		return dot.Encode(cmd.OutOrStdout(), g, dotDepth)
	}
	f, err := os.Create(dotOutput)
	if err != nil {
		return err
	}
	if err = dot.Encode(f, g, dotDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseAgent parses agent descriptions such as "minimax:4" or "mcts:1000:50".
func parseAgent(desc string) (sssg.Agent, error) {
	parts := strings.Split(desc, ":")
	nums := make([]int, len(parts)-1)
	for i, s := range parts[1:] {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, errors.Wrapf(game.ErrValidation, "bad number %q in agent %q", s, desc)
		}
		nums[i] = n
	}
	switch {
	case parts[0] == "random" && len(nums) <= 1:
		var s int
		if len(nums) == 1 {
			s = nums[0]
		}
		return sssg.NewRandomAgent(desc, uint32(s)), nil
	case parts[0] == "minimax" && len(nums) == 1 && nums[0] >= 1:
		return sssg.MinimaxAgent{Depth: nums[0]}, nil
	case parts[0] == "mcts" && len(nums) >= 1 && len(nums) <= 2:
		conf := mcts.DefaultConfig()
		conf.Budget = int32(nums[0])
		conf.Timeout = 0
		if len(nums) == 2 {
			conf.Timeout = time.Duration(nums[1]) * time.Millisecond
		}
		if !conf.IsValid() {
			return nil, errors.Wrapf(game.ErrValidation, "invalid search config in agent %q", desc)
		}
		return sssg.MCTSAgent{Config: conf}, nil
	}
	return nil, errors.Wrapf(game.ErrValidation, "unknown agent %q", desc)
}

func runArena(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	a, err := parseAgent(agentA)
	if err != nil {
		return err
	}
	b, err := parseAgent(agentB)
	if err != nil {
		return err
	}
	ar, err := sssg.NewArena(g, a, b)
	if err != nil {
		return err
	}
	ar.MaxPlies = maxPlies

	ctx := cmd.Context()
	log.Printf("playing %d games of %v against %v", games, a.Name(), b.Name())
	start := time.Now()
	outcomes, err := ar.Tournament(ctx, games, workers)
	if err != nil {
		return err
	}
	log.Printf("done in %v", time.Since(start).Round(time.Millisecond))

	p := newPrinter(cmd.OutOrStdout())
	for _, o := range outcomes {
		p.Printf("%v %s\n", o, p.value(o.Value))
	}
	for _, name := range ar.Creation {
		p.Printf("%s: %d wins, %d losses, %d draws\n", p.bold("%v", name), ar.Wins[name], ar.Losses[name], ar.Draws[name])
	}
	if statsFile != "" {
		if err := ar.Dump(statsFile); err != nil {
			return err
		}
	}
	if gifFile != "" {
		return recordGame(ctx, ar, gifFile)
	}
	return nil
}

func recordGame(ctx context.Context, ar *sssg.Arena, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	enc := gif.NewGifEncoder(f, 600, 900)
	ar.Recorder = enc
	if _, err = ar.Play(ctx, 0, true); err == nil {
		err = enc.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func runGTP(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}
	agent, err := parseAgent(gtpAgent)
	if err != nil {
		return err
	}
	e := gtp.New(g, "sssg", version, nil)
	e.Generate = agent.Choose
	return e.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
