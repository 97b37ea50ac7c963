package chain

import (
	"iter"
	"runtime"
)

// FrameKind classifies a pending logical frame.
type FrameKind int

const (
	// FrameRoot is the original Execute caller.
	FrameRoot FrameKind = iota
	// FrameProceed is an interceptor blocked in Proceed, waiting on the
	// chain ahead of it.
	FrameProceed
	// FrameSuspend is a suspension awaiting an external event.
	FrameSuspend
)

// String implements fmt.Stringer
func (k FrameKind) String() string {
	switch k {
	case FrameRoot:
		return "root"
	case FrameProceed:
		return "proceed"
	case FrameSuspend:
		return "suspend"
	default:
		return "unknown"
	}
}

// Frame is one entry of the logical call stack of pending continuations. A
// Frame with Failed set is the sentinel produced when an entry could not be
// captured consistently; its other fields are zero. Failed frames are
// advisory and never indicate a problem with the execution itself.
type Frame struct {
	Kind        FrameKind
	Index       int
	Interceptor string
	Reason      string
	File        string
	Line        int
	Failed      bool
}

// failedFrame is the sentinel for an entry the walker could not capture.
var failedFrame = Frame{Failed: true}

// Frames walks the executor's pending logical frames lazily, innermost
// (most recently suspended) first and the original caller last. The walk is
// safe to run while the execution is being resumed from another goroutine:
// each step is independently best-effort and degrades to a sentinel failed
// Frame instead of ever panicking. This path is diagnostic only and never
// affects the execution's result.
func (e *Executor[S]) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		n := e.reg.depth()
		for depth := 0; depth < n; depth++ {
			if !yield(e.PeekFrame(depth)) {
				return
			}
		}
	}
}

// PeekFrame reads the frame depth entries in from the innermost pending
// continuation, without synchronization. Out-of-range depths and entries
// that change underfoot yield the sentinel failed Frame.
func (e *Executor[S]) PeekFrame(depth int) (fr Frame) {
	defer func() {
		if recover() != nil {
			fr = failedFrame
		}
	}()

	rec, ok := e.reg.peek(depth)
	if !ok {
		return failedFrame
	}
	fr = Frame{
		Kind:        rec.kind,
		Index:       rec.index,
		Interceptor: rec.name,
		Reason:      rec.reason,
	}
	// Source locations are resolved lazily, only when a walker asks.
	if rec.pc != 0 {
		if fn := runtime.FuncForPC(rec.pc); fn != nil {
			fr.File, fr.Line = fn.FileLine(rec.pc)
		}
	}
	return fr
}
