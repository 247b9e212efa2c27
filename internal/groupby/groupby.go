// Package groupby buckets slices by key while keeping the order in which
// keys were first seen.
package groupby

// Group is one bucket of items sharing Key, in input order.
type Group[K comparable, V any] struct {
	Key   K
	Items []V
}

// Ordered groups items by key. Groups appear in first-seen key order and
// items keep their relative order inside each group.
func Ordered[K comparable, V any](items []V, key func(V) K) []Group[K, V] {
	index := make(map[K]int)
	var groups []Group[K, V]
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, V]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
