package service

import (
	"errors"
	"sync"

	"go-employee-console/internal/model"
)

var ErrDeleteInFlight = errors.New("a delete for this row is already in progress")

type rowKey struct {
	resource string
	id       model.ID
}

// InFlight tracks rows with a pending delete so a second delete for the same
// row is refused while other rows stay usable.
type InFlight struct {
	mu   sync.Mutex
	rows map[rowKey]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{rows: make(map[rowKey]struct{})}
}

// Acquire marks the row pending. The returned release must be called once.
func (f *InFlight) Acquire(resource string, id model.ID) (release func(), ok bool) {
	key := rowKey{resource, id}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.rows[key]; busy {
		return nil, false
	}
	f.rows[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.rows, key)
			f.mu.Unlock()
		})
	}, true
}

func (f *InFlight) Pending(resource string, id model.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.rows[rowKey{resource, id}]
	return busy
}
