package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

type bucket struct {
	key    string
	amount decimal.Decimal
}

// buckets accumulates amounts per key and remembers first-appearance order.
type buckets struct {
	index map[string]int
	items []bucket
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) add(key string, amount decimal.Decimal) {
	if i, ok := b.index[key]; ok {
		b.items[i].amount = b.items[i].amount.Add(amount)
		return
	}
	b.index[key] = len(b.items)
	b.items = append(b.items, bucket{key: key, amount: amount})
}

// sorted returns the buckets by descending amount; ties keep insertion order.
func (b *buckets) sorted() []bucket {
	out := make([]bucket, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].amount.GreaterThan(out[j].amount)
	})
	return out
}
