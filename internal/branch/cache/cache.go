package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/awmpietro/autocase/internal/branch"
)

// InMemory caches built trees by source text and function name. Concurrent
// misses on one key share a single build. Failed builds are not cached.
type InMemory struct {
	mu       sync.Mutex
	max      int
	items    map[string]*branch.Tree
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	tree *branch.Tree
	err  error
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:      max,
		items:    make(map[string]*branch.Tree, max),
		inflight: make(map[string]*call),
	}
}

func (c *InMemory) GetOrCompute(source, target string, fn func() (*branch.Tree, error)) (tree *branch.Tree, err error) {
	key := hash(source, target)

	c.mu.Lock()
	if t, ok := c.items[key]; ok {
		c.mu.Unlock()
		return t, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.tree, cl.err
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			cl.tree, cl.err = nil, fmt.Errorf("build %s panicked: %v", target, r)
		}
		c.mu.Lock()
		delete(c.inflight, key)
		if cl.err == nil && len(c.items) < c.max {
			c.items[key] = cl.tree
		}
		c.mu.Unlock()
		close(cl.done)
		tree, err = cl.tree, cl.err
	}()

	cl.tree, cl.err = fn()
	return cl.tree, cl.err
}

func (c *InMemory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func hash(source, target string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(target))
	return hex.EncodeToString(h.Sum(nil))
}
