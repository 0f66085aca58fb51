package services

import (
	"hash/fnv"
	"sort"
	"sync"
)

const lockStripes = 64

// KeyedMutex serializes work on the same key (a menu's stock, a day's
// receipt counter) inside this process. Keys hash onto a fixed set of
// stripes, so unrelated keys may occasionally share a lock.
type KeyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (k *KeyedMutex) stripe(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % lockStripes)
}

// Lock acquires every stripe the keys map to, in ascending order so two
// callers with overlapping keys cannot deadlock. The returned func unlocks.
func (k *KeyedMutex) Lock(keys ...string) func() {
	seen := make(map[int]struct{}, len(keys))
	idx := make([]int, 0, len(keys))
	for _, key := range keys {
		s := k.stripe(key)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		idx = append(idx, s)
	}
	sort.Ints(idx)

	for _, i := range idx {
		k.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			k.stripes[idx[j]].Unlock()
		}
	}
}
