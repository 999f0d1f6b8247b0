// Command sssg explores, measures and plays on synthetic state space graphs.
package main

import (
	"log"
	"os"

	"github.com/gorgonia/sssg"
	"github.com/gorgonia/sssg/presets"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "sssg",
		Short: "Synthetic state space graphs for benchmarking game tree search",
		Long: `sssg derives arbitrarily large game graphs from a seed. Every command builds
the graph from the default configuration, then a preset, then a YAML file laid over it, then
the --seed and --max-depth flags.`,
		SilenceUsage: true,
	}

	configFile string
	presetName string
	seed       int64
	maxDepth   int64
)

func init() {
	log.SetFlags(log.Ltime)
	log.SetPrefix("sssg: ")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML configuration file")
	pf.StringVar(&presetName, "preset", "", "start from a preset (tictactoe, connectfour, connectfour-detailed, pgame, midgame-heavy)")
	pf.Int64Var(&seed, "seed", 0, "seed of the graph")
	pf.Int64Var(&maxDepth, "max-depth", 0, "maximum depth of the graph")

	rootCmd.AddCommand(walkCmd, statsCmd, dotCmd, arenaCmd, gtpCmd)
}

// loadConfig builds the configuration from the persistent flags.
func loadConfig(cmd *cobra.Command) (sssg.Config, error) {
	conf := sssg.DefaultConfig()
	if presetName != "" {
		var err error
		if conf, err = presets.Lookup(presetName); err != nil {
			return conf, err
		}
	}
	if configFile != "" {
		f, err := os.Open(configFile)
		if err != nil {
			return conf, err
		}
		defer f.Close()
		if conf, err = sssg.LoadConfigOnto(f, conf); err != nil {
			return conf, errors.WithMessagef(err, "loading %v", configFile)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		conf.Seed = seed
	}
	if flags.Changed("max-depth") {
		conf.MaxDepth = maxDepth
	}
	return conf, conf.Validate()
}

func loadGraph(cmd *cobra.Command) (*sssg.Graph, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return sssg.New(conf)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
