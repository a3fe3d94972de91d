package mentor

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// SummaryCache chat_title → 摘要的软缓存。摘要可随时重新生成，
// 缓存由调用方构造后注入引擎，生命周期对调用方可见
type SummaryCache interface {
	Get(title string) (string, bool)
	Put(title, summary string)
}

// LRUSummaryCache 基于LRU的进程内实现，并发访问安全，后写覆盖先写
type LRUSummaryCache struct {
	cache *lru.Cache[string, string]
}

func NewLRUSummaryCache(size int) (*LRUSummaryCache, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &LRUSummaryCache{cache: cache}, nil
}

func (c *LRUSummaryCache) Get(title string) (string, bool) {
	return c.cache.Get(title)
}

func (c *LRUSummaryCache) Put(title, summary string) {
	c.cache.Add(title, summary)
}
