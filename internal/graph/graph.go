// Package graph orders providers so that each appears after its prerequisite.
package graph

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
)

// ErrCycle is returned when the prerequisite relation among the given
// providers is not acyclic.
var ErrCycle = errors.New("prerequisite cycle")

// Prerequisites exposes the single-parent dependency relation. *catalog.Catalog
// implements it.
type Prerequisites interface {
	Prerequisite(id catalog.ProviderID) catalog.ProviderID
}

// Order returns ids sorted so that every provider follows its prerequisite
// when that prerequisite is also present. Prerequisites outside ids count as
// already satisfied. Among providers that are ready at the same time the
// smallest id goes first, so the result is the lexicographically smallest
// valid order.
func Order(deps Prerequisites, ids []catalog.ProviderID) ([]catalog.ProviderID, error) {
	present := make(map[catalog.ProviderID]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}

	blocked := make(map[catalog.ProviderID]bool, len(present))
	successors := make(map[catalog.ProviderID][]catalog.ProviderID)
	ready := &idHeap{}
	for id := range present {
		pre := deps.Prerequisite(id)
		if pre != catalog.None && present[pre] {
			blocked[id] = true
			successors[pre] = append(successors[pre], id)
			continue
		}
		*ready = append(*ready, id)
	}
	heap.Init(ready)

	out := make([]catalog.ProviderID, 0, len(present))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(catalog.ProviderID)
		out = append(out, id)
		for _, next := range successors[id] {
			delete(blocked, next)
			heap.Push(ready, next)
		}
	}

	if len(out) != len(present) {
		return nil, fmt.Errorf("%w among %d of %d providers", ErrCycle, len(blocked), len(present))
	}
	return out, nil
}

type idHeap []catalog.ProviderID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(catalog.ProviderID))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
