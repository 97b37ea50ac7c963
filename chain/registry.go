package chain

import "sync/atomic"

// frameRecord is one pending resumption point. Records are immutable once
// pushed.
type frameRecord struct {
	kind   FrameKind
	index  int
	name   string
	reason string
	pc     uintptr
}

// registry is the LIFO store of pending resumption points for one executor.
// Only the owning execution goroutine pushes and pops; the diagnostic walk
// may read from any goroutine. The backing slice is replaced copy-on-write
// and published through an atomic pointer so readers never block and never
// observe a half-written stack.
type registry struct {
	frames atomic.Pointer[[]frameRecord]
}

func (r *registry) reset() {
	empty := make([]frameRecord, 0, 4)
	r.frames.Store(&empty)
}

func (r *registry) push(f frameRecord) {
	cur := r.load()
	next := make([]frameRecord, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = f
	r.frames.Store(&next)
}

// pop removes and returns the most recently pushed record. ErrEmptyRegistry
// is an invariant breach: correct callers never pop an empty registry.
func (r *registry) pop() (frameRecord, error) {
	cur := r.load()
	if len(cur) == 0 {
		return frameRecord{}, ErrEmptyRegistry
	}
	top := cur[len(cur)-1]
	next := make([]frameRecord, len(cur)-1)
	copy(next, cur[:len(cur)-1])
	r.frames.Store(&next)
	return top, nil
}

func (r *registry) load() []frameRecord {
	p := r.frames.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (r *registry) depth() int { return len(r.load()) }

// peek reads the record depth entries from the top without synchronization.
// ok is false when depth is out of range for the snapshot observed, which a
// concurrent pop can cause at any time; callers must treat that as "frame
// unavailable", not as an error.
func (r *registry) peek(depth int) (frameRecord, bool) {
	cur := r.load()
	i := len(cur) - 1 - depth
	if i < 0 || i >= len(cur) {
		return frameRecord{}, false
	}
	return cur[i], true
}
