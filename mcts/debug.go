//go:build debug

package mcts

import (
	"bytes"
	"fmt"
	"sync"
)

type lumberjack struct {
	sync.Mutex
	*bytes.Buffer
}

func makeLumberJack() lumberjack {
	return lumberjack{
		Buffer: new(bytes.Buffer),
	}
}

func (l *lumberjack) log(msg string, args ...interface{}) {
	l.Lock()
	fmt.Fprintf(l.Buffer, msg, args...)
	l.WriteByte('\n')
	l.Unlock()
}

func (l *lumberjack) Reset() {
	l.Lock()
	l.Buffer.Reset()
	l.Unlock()
}

// Log returns everything the last search logged.
func (l *lumberjack) Log() string {
	l.Lock()
	defer l.Unlock()
	return l.String()
}
