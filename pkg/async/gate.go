// Package async implements the reference-counted cancellation gate
// (§4.11): a single atomic word shared by every clone of a Gate that
// lets callbacks already in flight finish while guaranteeing no new
// one starts after Stop.
//
// It is grounded on the original implementation's async::pointer
// (src/mcpp/async.cpp), translated from a C++ shared-ownership handle
// (copy/move constructors plus a destructor asserting the gate was
// stopped) into explicit Clone/Drop calls, since Go has no destructors.
package async

import "go.uber.org/atomic"

const (
	runningUnit uint64 = 1
	refUnit     uint64 = 1 << 32
	stopFlag    uint64 = 1 << 63
	refMask     uint64 = 0x7FFFFFFF << 32
	runningMask uint64 = 0xFFFFFFFF
)

func refCount(v uint64) uint64     { return (v & refMask) >> 32 }
func runningCount(v uint64) uint64 { return v & runningMask }
func isStopped(v uint64) bool      { return v&stopFlag != 0 }
func isLastRef(v uint64) bool      { return refCount(v) == 1 }

func fetchAdd(w *atomic.Uint64, delta uint64) uint64 { return w.Add(delta) - delta }
func fetchSub(w *atomic.Uint64, delta uint64) uint64 { return w.Sub(delta) + delta }

func fetchOr(w *atomic.Uint64, bits uint64) uint64 {
	for {
		old := w.Load()
		if old&bits == bits {
			return old
		}
		if w.CompareAndSwap(old, old|bits) {
			return old
		}
	}
}

// Gate is a handle on a shared cancellation word. The zero Gate is not
// usable; construct one with New, and obtain further handles to the
// same underlying word with Clone.
type Gate struct {
	word *atomic.Uint64
}

// New returns a Gate holding the word's first reference.
func New() *Gate {
	return &Gate{word: atomic.NewUint64(refUnit)}
}

// Clone returns a new handle on the same underlying word, incrementing
// its reference count. Each clone must eventually call Drop.
func (g *Gate) Clone() *Gate {
	fetchAdd(g.word, refUnit)
	return &Gate{word: g.word}
}

// Drop releases this handle's reference. If it was the last one, the
// word must already have been Stopped; dropping the last reference
// before calling Stop is a programmer error.
func (g *Gate) Drop() {
	prev := fetchSub(g.word, refUnit)
	if isLastRef(prev) && !isStopped(prev) {
		panic("async: last Gate reference dropped before Stop")
	}
}

// Enter registers the start of a guarded callback. It returns false,
// without registering anything, if Stop has already been called;
// callers must not run the callback in that case. A true result must be
// paired with exactly one Leave call.
func (g *Gate) Enter() bool {
	prev := fetchAdd(g.word, runningUnit)
	if isStopped(prev) {
		fetchSub(g.word, runningUnit)
		return false
	}
	return true
}

// Leave registers the end of a callback whose Enter returned true.
func (g *Gate) Leave() {
	fetchSub(g.word, runningUnit)
}

// Stop marks the gate closed and blocks until every in-flight callback
// has called Leave. It is idempotent, and after it returns no
// subsequent Enter can succeed.
func (g *Gate) Stop() {
	fetchOr(g.word, stopFlag)
	for runningCount(g.word.Load()) != 0 {
	}
}

// Stopped reports whether Stop has been called.
func (g *Gate) Stopped() bool { return isStopped(g.word.Load()) }

// Wrap returns a callable that runs f only if Enter succeeds at the
// time it is called, leaving afterward. It is the primary way callbacks
// should be registered against a Gate: it makes the enter/run/leave
// sequence impossible to get wrong.
func (g *Gate) Wrap(f func()) func() {
	return func() {
		if !g.Enter() {
			return
		}
		defer g.Leave()
		f()
	}
}
