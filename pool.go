package sssg

import (
	"sync"

	"github.com/gorgonia/sssg/mcts"
)

var (
	treePoolLock sync.Mutex
	treePool     = make(map[mcts.Config]*sync.Pool)
)

func borrowTree(conf mcts.Config) *mcts.MCTS {
	treePoolLock.Lock()
	p, ok := treePool[conf]
	if !ok {
		p = &sync.Pool{
			New: func() interface{} { return mcts.New(conf) },
		}
		treePool[conf] = p
	}
	treePoolLock.Unlock()
	return p.Get().(*mcts.MCTS)
}

func returnTree(conf mcts.Config, t *mcts.MCTS) {
	t.Reset()
	treePoolLock.Lock()
	p, ok := treePool[conf]
	treePoolLock.Unlock()
	if ok {
		p.Put(t)
	}
}
