package mustache

import (
	"encoding/hex"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// DefaultCache backs the package-level [Parse] and [Render] functions and
// every [Engine] created without [WithCache].
//
// The cache is never evicted. A process that renders an unbounded number of
// distinct template texts grows it without limit; use a dedicated [Cache]
// and [Cache.Clear] to reclaim memory.
//
//nolint:gochecknoglobals
var DefaultCache = NewCache()

// cacheKey identifies parsed text by its 128-bit hash. The same text parsed
// under different delimiters yields different nodes, so the starting pair is
// part of the key.
//
// Standalone tags are detected by looking at the characters around a tag,
// so a section body whose first or last line is shared with text outside
// the body may parse differently on its own. Such bodies are marked
// detached and never answer a lookup for whole text.
type cacheKey struct {
	delims   Delims
	sum      xxh3.Uint128
	detached bool
}

func makeCacheKey(delims Delims, text string, detached bool) cacheKey {
	return cacheKey{
		delims:   delims,
		sum:      xxh3.HashString128(text),
		detached: detached,
	}
}

// String returns the hash of the key's text in hex.
func (k cacheKey) String() string {
	b := k.sum.Bytes()

	return hex.EncodeToString(b[:])
}

// entry holds the parse result for one key. The once guarantees the parser
// runs at most once per key, even under concurrent renders.
type entry struct {
	once  sync.Once
	nodes []Node
	err   error
}

// Cache memoizes parsed node sequences by a hash of the template text.
// A Cache is safe for concurrent use.
type Cache struct {
	entries sync.Map // cacheKey -> *entry
	size    atomic.Int64
	parses  atomic.Int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return new(Cache)
}

// Len returns the number of cached keys, including section bodies.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Parses returns how many times the parser has run on behalf of c.
func (c *Cache) Parses() int {
	return int(c.parses.Load())
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		if _, ok := c.entries.LoadAndDelete(key); ok {
			c.size.Add(-1)
		}

		return true
	})
}

// load returns the nodes cached under key, calling parse to produce them if
// key has never been seen. It reports whether the result came from cache.
// A failed parse is remembered; no nodes are stored for it.
func (c *Cache) load(
	key cacheKey,
	parse func() ([]Node, error),
) (nodes []Node, hit bool, err error) {
	e := c.entryFor(key)

	hit = true

	e.once.Do(func() {
		hit = false

		c.parses.Add(1)

		e.nodes, e.err = parse()
		if e.err != nil {
			e.nodes = nil
		}
	})

	return e.nodes, hit, e.err
}

// store records nodes under key unless the key already holds a successful
// result, in which case the existing nodes are kept and returned.
func (c *Cache) store(key cacheKey, nodes []Node) []Node {
	e := c.entryFor(key)

	e.once.Do(func() { e.nodes = nodes })

	if e.err != nil {
		return nodes
	}

	return e.nodes
}

func (c *Cache) entryFor(key cacheKey) *entry {
	if v, ok := c.entries.Load(key); ok {
		return v.(*entry) //nolint:forcetypeassert
	}

	v, loaded := c.entries.LoadOrStore(key, new(entry))
	if !loaded {
		c.size.Add(1)
	}

	return v.(*entry) //nolint:forcetypeassert
}
