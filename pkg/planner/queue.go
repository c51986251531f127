package planner

import "container/heap"

type searchState struct {
	label    *Label
	priority float64
	sequence int

	maxIndex int
	minIndex int
}

// before orders states best first; earlier pushes win ties.
func (s *searchState) before(other *searchState) bool {
	if s.priority != other.priority {
		return s.priority > other.priority
	}
	return s.sequence < other.sequence
}

type maxStates []*searchState

func (h maxStates) Len() int           { return len(h) }
func (h maxStates) Less(i, j int) bool { return h[i].before(h[j]) }
func (h maxStates) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].maxIndex = i
	h[j].maxIndex = j
}
func (h *maxStates) Push(x any) {
	state := x.(*searchState)
	state.maxIndex = len(*h)
	*h = append(*h, state)
}
func (h *maxStates) Pop() any {
	old := *h
	state := old[len(old)-1]
	*h = old[:len(old)-1]
	return state
}

type minStates []*searchState

func (h minStates) Len() int           { return len(h) }
func (h minStates) Less(i, j int) bool { return h[j].before(h[i]) }
func (h minStates) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].minIndex = i
	h[j].minIndex = j
}
func (h *minStates) Push(x any) {
	state := x.(*searchState)
	state.minIndex = len(*h)
	*h = append(*h, state)
}
func (h *minStates) Pop() any {
	old := *h
	state := old[len(old)-1]
	*h = old[:len(old)-1]
	return state
}

// boundedQueue is a max-priority queue holding at most limit states. When
// full, a push evicts the worst state or is refused if it is no better.
type boundedQueue struct {
	limit int
	best  maxStates
	worst minStates
}

func newBoundedQueue(limit int) *boundedQueue {
	return &boundedQueue{limit: limit}
}

func (q *boundedQueue) Len() int {
	return len(q.best)
}

func (q *boundedQueue) Push(state *searchState) bool {
	if q.limit > 0 && len(q.best) >= q.limit {
		worst := q.worst[0]
		if !state.before(worst) {
			return false
		}
		heap.Pop(&q.worst)
		heap.Remove(&q.best, worst.maxIndex)
	}

	heap.Push(&q.best, state)
	heap.Push(&q.worst, state)
	return true
}

func (q *boundedQueue) Pop() *searchState {
	state := heap.Pop(&q.best).(*searchState)
	heap.Remove(&q.worst, state.minIndex)
	return state
}
