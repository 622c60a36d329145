package sim

import (
	"container/heap"
	"sync"
)

// An EventQueue orders events by time. Events of the same time leave in
// the order they were pushed. It is safe for concurrent use.
type EventQueue struct {
	mu     sync.Mutex
	events eventHeap
	pushed uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.events, queuedEvent{evt: evt, order: q.pushed})
	q.pushed++
}

// Pop removes and returns the earliest event, or nil.
func (q *EventQueue) Pop() Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}

	return heap.Pop(&q.events).(queuedEvent).evt
}

// Peek returns the earliest event without removing it, or nil.
func (q *EventQueue) Peek() Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}

	return q.events[0].evt
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events)
}

type queuedEvent struct {
	evt   Event
	order uint64
}

// eventHeap implements heap.Interface.
type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].order < h[j].order
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]

	return last
}
