package execution

import (
	"sync"

	"simple/internal/domain"
)

// Queue is the FIFO of units shared by all workers of a run
type Queue struct {
	mu    sync.Mutex
	items []domain.PreparedTest
}

// NewQueue creates a queue holding a copy of tests
func NewQueue(tests []domain.PreparedTest) *Queue {
	items := make([]domain.PreparedTest, len(tests))
	copy(items, tests)
	return &Queue{items: items}
}

// Pop removes and returns the head. Only one caller can ever get a given unit.
func (q *Queue) Pop() (domain.PreparedTest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.PreparedTest{}, false
	}
	head := q.items[0]
	q.items[0] = domain.PreparedTest{}
	q.items = q.items[1:]
	return head, true
}

// Push appends units to the tail
func (q *Queue) Push(tests ...domain.PreparedTest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, tests...)
}

// Len returns the number of units waiting
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the waiting units in order
func (q *Queue) Snapshot() []domain.PreparedTest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.PreparedTest, len(q.items))
	copy(out, q.items)
	return out
}
