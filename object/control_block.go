package object

import "sync/atomic"

// ControlBlock is the heap record holding an object's strong and
// weak reference counts, distinct from the object itself. The
// intrusive count manipulated by Interface.Ref/Unref is the block's
// strong count, so intrusive and shared/weak handle flavours
// coexist over the same atomic.
//
// The object is destroyed when the strong count transitions to
// zero; the block itself is reclaimed once both counts reach zero
// (under Go's collector, once nothing references it).
type ControlBlock struct {
	strong atomic.Int32
	weak   atomic.Int32
	// destroy tears the object down on the final strong release.
	destroy func()
}

// NewControlBlock creates a control block with a strong count of
// one (owned by the creator) and the single weak count that the
// strong population collectively holds on the block.
func NewControlBlock(destroy func()) *ControlBlock {
	block := &ControlBlock{destroy: destroy}
	block.strong.Store(1)
	block.weak.Store(1)
	return block
}

// IncStrong increments the strong count. Must only be called while
// the caller already holds a strong reference.
func (b *ControlBlock) IncStrong() {
	b.strong.Add(1)
}

// DecStrong decrements the strong count. On the final release the
// object is destroyed and the strong population's weak count is
// dropped.
func (b *ControlBlock) DecStrong() {
	if b.strong.Add(-1) == 0 {
		if b.destroy != nil {
			b.destroy()
			b.destroy = nil
		}
		b.DecWeak()
	}
}

// IncWeak increments the weak count.
func (b *ControlBlock) IncWeak() {
	b.weak.Add(1)
}

// DecWeak decrements the weak count. When both counts have reached
// zero no handle can observe the block again and the collector
// reclaims it.
func (b *ControlBlock) DecWeak() {
	b.weak.Add(-1)
}

// StrongCount returns the current strong count. Intended for tests
// and diagnostics; the value may be stale by the time it is read.
func (b *ControlBlock) StrongCount() int32 {
	return b.strong.Load()
}

// Expired reports whether the strong count has reached zero.
func (b *ControlBlock) Expired() bool {
	return b.strong.Load() == 0
}

// TryPromote attempts a weak-to-strong promotion with a CAS loop
// that refuses an expired block. Returns false once the strong
// count has hit zero.
func (b *ControlBlock) TryPromote() bool {
	for {
		current := b.strong.Load()
		if current == 0 {
			return false
		}
		if b.strong.CompareAndSwap(current, current+1) {
			return true
		}
	}
}
