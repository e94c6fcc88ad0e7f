package xpath

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// exprCache memoizes compiled expressions by source text, so repeatedly
// calling Eval with the same XPath string (common inside a Schematron rule
// loop evaluating the same "test" against every node in a context set)
// only parses it once. Grounded on gogo-agent-xmldom/xpath.go's
// getCachedExpression/setCachedExpression use of groupcache/lru.
type exprCache struct {
	mu sync.Mutex
	c  *lru.Cache
}

const defaultCacheSize = 256

var globalCache = newExprCache(defaultCacheSize)

func newExprCache(maxEntries int) *exprCache {
	return &exprCache{c: lru.New(maxEntries)}
}

func (c *exprCache) get(key string) (*Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.c.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Expression), true
}

func (c *exprCache) put(key string, expr *Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Add(key, expr)
}

// Compile parses and caches xpathExpr, returning the cached tree on a
// repeat call with identical source text.
func Compile(xpathExpr string) (*Expression, error) {
	if expr, ok := globalCache.get(xpathExpr); ok {
		return expr, nil
	}
	tree, err := Parse(xpathExpr)
	if err != nil {
		return nil, err
	}
	expr := &Expression{tree: tree}
	globalCache.put(xpathExpr, expr)
	return expr, nil
}
