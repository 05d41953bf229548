package smaz

import (
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// compiledCacheSize bounds how many tries for alternate codebooks are kept.
const compiledCacheSize = 64

type compiledCodebook struct {
	cb   *Codebook
	trie *Trie
}

var compiledCache = sync.OnceValue(func() *lru.Cache[uint64, compiledCodebook] {
	c, err := lru.New[uint64, compiledCodebook](compiledCacheSize)
	if err != nil {
		panic("smaz: compiled codebook cache: " + err.Error())
	}
	return c
})

// compile returns the trie for cb, building it on a cache miss. Entries
// are keyed by fingerprint and checked for equality, so a fingerprint
// collision only costs a rebuild.
func compile(cb *Codebook, logger *slog.Logger) (*Trie, error) {
	cache := compiledCache()
	if hit, ok := cache.Get(cb.fingerprint); ok && hit.cb.Equal(cb) {
		return hit.trie, nil
	}
	trie, err := BuildTrie(cb)
	if err != nil {
		return nil, err
	}
	logger.Debug("smaz: compiled codebook",
		"fingerprint", fmt.Sprintf("%016x", cb.fingerprint),
		"entries", cb.Len(),
		"nodes", len(trie.nodes))
	cache.Add(cb.fingerprint, compiledCodebook{cb: cb, trie: trie})
	return trie, nil
}
