package linemap

import (
	"sync"

	"github.com/standardbeagle/blockscan/internal/debug"
	"github.com/standardbeagle/blockscan/internal/language"
)

// CachedNodeInfo is a tree-lifetime-free projection of NodeInfo (spec §3 /
// §9 "cyclic references" design note): only row/byte ranges and kind
// strings are stored, never node or tree pointers, so cache entries outlive
// the tree that produced them.
type CachedNodeInfo struct {
	StartByte, EndByte int
	StartRow, EndRow   int
	NodeKind           string
	IsComment          bool
	IsTest             bool

	// OriginalNodeIsAcceptable records whether the represented node itself
	// satisfied IsAcceptableParent — the authoritative field per spec §9's
	// first Open Question (the cache-projection shape with this flag
	// supersedes the one without it).
	OriginalNodeIsAcceptable bool

	ContextStartByte, ContextEndByte int
	ContextStartRow, ContextEndRow   int
	ContextNodeKind                  string
	HasContext                       bool
	ContextNodeIsTest                bool

	ParentNodeType  string
	ParentStartRow  int
	ParentEndRow    int
	HasParentFunction bool
}

// Project reifies a live NodeInfo into a CachedNodeInfo, resolving the
// representative node the same way the live (Block Extractor) path would so
// that cache-hit and cache-miss outputs stay byte-identical (spec §8
// invariant 2).
func Project(info *NodeInfo, impl language.Impl, source []byte, allowTests bool) CachedNodeInfo {
	c := CachedNodeInfo{
		StartByte:                int(info.Node.StartByte()),
		EndByte:                  int(info.Node.EndByte()),
		StartRow:                 int(info.Node.StartPosition().Row),
		EndRow:                   int(info.Node.EndPosition().Row),
		NodeKind:                 info.Node.Kind(),
		IsComment:                info.IsComment,
		IsTest:                   info.IsTest,
		OriginalNodeIsAcceptable: impl.IsAcceptableParent(info.Node),
	}

	if info.ContextNode != nil {
		c.HasContext = true
		c.ContextStartByte = int(info.ContextNode.StartByte())
		c.ContextEndByte = int(info.ContextNode.EndByte())
		c.ContextStartRow = int(info.ContextNode.StartPosition().Row)
		c.ContextEndRow = int(info.ContextNode.EndPosition().Row)
		c.ContextNodeKind = info.ContextNode.Kind()
		c.ContextNodeIsTest = !allowTests && impl.IsTestNode(info.ContextNode, source)
	}

	repNode := info.Node
	if c.OriginalNodeIsAcceptable {
		repNode = info.Node
	} else if info.ContextNode != nil {
		repNode = info.ContextNode
	}

	if parent := impl.FindParentFunction(repNode); parent != nil {
		c.HasParentFunction = true
		c.ParentNodeType = parent.Kind()
		c.ParentStartRow = int(parent.StartPosition().Row)
		c.ParentEndRow = int(parent.EndPosition().Row)
	}

	return c
}

// Key identifies a cached line-map entry: spec §4 names
// (extension, content-hash, allow-tests).
type Key struct {
	Extension  string
	Hash       uint64
	AllowTests bool
}

// Cache is the Line-Map Cache: a process-wide mapping from Key to a
// map[int]CachedNodeInfo projection keyed by row. Concurrent reads never block
// each other; writes are short critical sections (spec §5).
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]map[int]CachedNodeInfo
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]map[int]CachedNodeInfo)}
}

// Get returns the cached projection for key, if present.
func (c *Cache) Get(key Key) (map[int]CachedNodeInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[key]
	if ok {
		debug.LogCache("line-map cache hit for %s/%x/allow_tests=%v\n", key.Extension, key.Hash, key.AllowTests)
	} else {
		debug.LogCache("line-map cache miss for %s/%x/allow_tests=%v\n", key.Extension, key.Hash, key.AllowTests)
	}
	return m, ok
}

// Put stores a projection. Safe under concurrent races: the last writer
// wins, which is fine since every writer for an equal key computes the same
// deterministic projection (spec §5: "idempotent by construction").
func (c *Cache) Put(key Key, projection map[int]CachedNodeInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = projection
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
