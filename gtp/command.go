package gtp

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

type query func(e *Engine) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func (f query) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }
func quit(e *Engine) string            { e.quit = true; return "" }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func id(e *Engine) (string, error) { return e.g.ID().String(), nil }

func depth(e *Engine) (string, error) { return strconv.FormatInt(e.g.Depth(), 10), nil }

func player(e *Engine) (string, error) { return e.g.Player().String(), nil }

func trueValue(e *Engine) (string, error) { return e.g.TrueValue().String(), nil }

func isRoot(e *Engine) (string, error) { return strconv.FormatBool(e.g.IsRoot()), nil }

func isTerminal(e *Engine) (string, error) {
	terminal, err := e.g.IsTerminal()
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(terminal), nil
}

func heuristicValue(e *Engine) (string, error) {
	h, err := e.g.HeuristicValue()
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(h, 'f', 6, 64), nil
}

func branchingFactor(e *Engine) (string, error) {
	actions, err := e.g.Actions()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(len(actions)), nil
}

func actions(e *Engine) (string, error) {
	actions, err := e.g.Actions()
	if err != nil {
		return "", err
	}
	strs := make([]string, len(actions))
	for i, a := range actions {
		strs[i] = strconv.Itoa(a)
	}
	return strings.Join(strs, " "), nil
}

func undo(e *Engine) (string, error) { return "", e.g.Undo() }

func makeRandom(e *Engine) (string, error) {
	if err := e.g.MakeRandom(); err != nil {
		return "", err
	}
	return e.g.ID().String(), nil
}

func makeAction(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"make\"")
	}
	action, err := strconv.Atoi(args[0])
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse argument of make")
	}
	if err = e.g.Make(action); err != nil {
		return "", err
	}
	return e.g.ID().String(), nil
}

func setRoot(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"set_root\"")
	}
	v, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse argument of set_root")
	}
	if err = e.g.SetRoot(game.StateID(v)); err != nil {
		return "", err
	}
	return e.g.ID().String(), nil
}

func genmove(e *Engine, args []string) (string, error) {
	if e.Generate == nil {
		return "", errors.New("Unable to generate moves. No generator found")
	}
	action, err := e.Generate(context.Background(), e.g)
	if err != nil {
		return "", err
	}
	if err = e.g.Make(action); err != nil {
		return "", err
	}
	return strconv.Itoa(action), nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),

		"id":               query(id),
		"actions":          query(actions),
		"make_random":      query(makeRandom),
		"undo":             query(undo),
		"true_value":       query(trueValue),
		"heuristic_value":  query(heuristicValue),
		"depth":            query(depth),
		"player":           query(player),
		"is_terminal":      query(isTerminal),
		"is_root":          query(isRoot),
		"branching_factor": query(branchingFactor),

		"known_command": stdlib2(knownCommand),
		"make":          stdlib2(makeAction),
		"set_root":      stdlib2(setRoot),
		"genmove":       stdlib2(genmove),
	}
}
