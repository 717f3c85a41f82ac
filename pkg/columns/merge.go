package columns

import "container/heap"

// MergeSorted merges ascending slices into a single ascending slice.
func MergeSorted(lists ...[]int) []int {
	total := 0
	h := &cursorHeap{lists: lists}
	for i, l := range lists {
		total += len(l)
		if len(l) > 0 {
			h.items = append(h.items, cursor{list: i})
		}
	}
	heap.Init(h)

	out := make([]int, 0, total)
	for h.Len() > 0 {
		c := heap.Pop(h).(cursor)
		out = append(out, lists[c.list][c.pos])

		// Refill from the same list
		if c.pos+1 < len(lists[c.list]) {
			heap.Push(h, cursor{list: c.list, pos: c.pos + 1})
		}
	}
	return out
}

// cursor points at the next unread element of one input list.
type cursor struct {
	list int
	pos  int
}

// cursorHeap implements heap.Interface ordered by the value under each cursor.
type cursorHeap struct {
	items []cursor
	lists [][]int
}

func (h *cursorHeap) value(i int) int {
	c := h.items[i]
	return h.lists[c.list][c.pos]
}

func (h *cursorHeap) Len() int { return len(h.items) }

func (h *cursorHeap) Less(i, j int) bool {
	vi, vj := h.value(i), h.value(j)
	if vi != vj {
		return vi < vj
	}
	return h.items[i].list < h.items[j].list
}

func (h *cursorHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *cursorHeap) Push(x any) {
	h.items = append(h.items, x.(cursor))
}

func (h *cursorHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
