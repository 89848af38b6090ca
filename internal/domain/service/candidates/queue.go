package candidates

import (
	"container/heap"

	"fw_trader/internal/domain/entity"
)

// Queue — приоритетная очередь лотов по убыванию профита.
// Принадлежит фазе анализа; фаза покупки забирает лоты по одному через
// PopMax и тем самым становится их владельцем.
type Queue struct {
	h offerHeap
}

func NewQueue() *Queue {
	return &Queue{h: offerHeap{}}
}

func (q *Queue) Push(offer entity.Offer) {
	heap.Push(&q.h, offer)
}

// PopMax returns the remaining offer with the highest profit.
func (q *Queue) PopMax() (entity.Offer, bool) {
	if len(q.h) == 0 {
		return entity.Offer{}, false
	}
	return heap.Pop(&q.h).(entity.Offer), true
}

func (q *Queue) Peek() (entity.Offer, bool) {
	if len(q.h) == 0 {
		return entity.Offer{}, false
	}
	return q.h[0], true
}

func (q *Queue) Len() int {
	return len(q.h)
}

func (q *Queue) Clear() {
	q.h = q.h[:0]
}

type offerHeap []entity.Offer

func (h offerHeap) Len() int           { return len(h) }
func (h offerHeap) Less(i, j int) bool { return h[i].Profit > h[j].Profit }
func (h offerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *offerHeap) Push(x any) { *h = append(*h, x.(entity.Offer)) }
func (h *offerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
