// Package gtp implements a line oriented text protocol, framed like the Go Text Protocol, to
// drive a game.State from another process.
package gtp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gorgonia/sssg/game"
	"github.com/pkg/errors"
)

// Generator chooses an action for the state. It must leave the state where it found it.
type Generator func(ctx context.Context, st game.State) (int, error)

type Engine struct {
	g game.State

	known map[string]Command

	ch   chan string
	ret  chan string
	quit bool

	Generate      Generator
	name, version string
}

func New(g game.State, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		g:       g,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start runs the engine in its own goroutine. Every command sent on input gets exactly one
// response on output. Output is closed after the response to "quit" or when input is closed.
func (e *Engine) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() game.State { return e.g }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		e.ret <- e.Exec(cmd)
		if e.quit {
			return
		}
	}
}

// Serve reads commands from r line by line and writes the responses to w, until "quit" or
// the end of r.
func (e *Engine) Serve(r io.Reader, w io.Writer) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		resp := e.Exec(s.Text())
		if resp == "" {
			continue
		}
		if _, err := io.WriteString(w, resp); err != nil {
			return err
		}
		if e.quit {
			return nil
		}
	}
	return s.Err()
}

// Exec executes one command and returns the framed response. Empty and comment lines
// produce no response.
func (e *Engine) Exec(cmd string) string {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return ""
	}
	if err != nil {
		return handleErr(id, err)
	}
	id, result, err := x.Do(id, args, e)
	return handleResult(id, result, err)
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // an ID on its own is ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
